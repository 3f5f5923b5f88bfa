package domain

import "fmt"

// Canonical questionnaire definitions. Question order matters: Validate
// reports failures strictly in this order.

// TaskforceFeederQuestionnaire is the nine-question feeder-point survey.
// Branch rules mirror the field procedure exactly: what YES demands, NO
// usually answers with an absence photo or a remark.
func TaskforceFeederQuestionnaire() *Questionnaire {
	return &Questionnaire{
		Name: "taskforce-feeder-survey",
		Questions: []QuestionDef{
			{
				ID:    "q1",
				Label: "Is there any waste present at the SCP?",
				Kind:  QuestionBoolean,
				Branches: []BranchRule{
					{
						When: AnswerYes,
						Fields: []SubFieldDef{
							{Key: "insidePhotos", Kind: FieldPhotos, Label: "upload inside photo", Slots: 1},
						},
					},
					{
						When:           AnswerYes,
						WhenField:      "outsideWaste",
						WhenFieldValue: AnswerYes,
						Fields: []SubFieldDef{
							{Key: "outsidePhotos", Kind: FieldPhotos, Label: "outside waste photo", Slots: 1},
						},
					},
					{
						When: AnswerNo,
						Fields: []SubFieldDef{
							{Key: "cleanRemark", Kind: FieldText, Label: "remark (area clean)"},
						},
					},
				},
			},
			{
				ID:    "q2",
				Label: "Are Swachh workers present?",
				Kind:  QuestionBoolean,
				Branches: []BranchRule{
					{
						When: AnswerYes,
						Fields: []SubFieldDef{
							{Key: "workerCount", Kind: FieldCount, Label: "worker count"},
							{Key: "workerNames", Kind: FieldText, Label: "worker names"},
						},
					},
					{
						When: AnswerNo,
						Fields: []SubFieldDef{
							{Key: "workersPhoto", Kind: FieldPhotos, Label: "worker absence photo", Slots: 1},
						},
					},
				},
			},
			{
				ID:    "q3",
				Label: "Is PMC waste vehicle present?",
				Kind:  QuestionBoolean,
				Branches: []BranchRule{
					{
						When: AnswerYes,
						Fields: []SubFieldDef{
							{Key: "vehicleNumber", Kind: FieldText, Label: "vehicle number"},
							{Key: "vehicleHelper", Kind: FieldText, Label: "helper details"},
						},
					},
					{
						When: AnswerNo,
						Fields: []SubFieldDef{
							{Key: "vehiclePhoto", Kind: FieldPhotos, Label: "vehicle absence photo", Slots: 1},
						},
					},
				},
			},
			{
				ID:       "q4",
				Label:    "Surrounding area (30m) clean? Upload 3 photos",
				Kind:     QuestionBoolean,
				Optional: true, // only the photos are mandatory
				Branches: []BranchRule{
					{
						When: BranchAny,
						Fields: []SubFieldDef{
							{Key: "surroundingCleanPhotos", Kind: FieldPhotos, Label: "3 surrounding area photos", Slots: 3},
						},
					},
				},
			},
			{
				ID:    "q5",
				Label: "Is SWD clean?",
				Kind:  QuestionBoolean,
				Branches: []BranchRule{
					{
						When: BranchAny,
						Fields: []SubFieldDef{
							{Key: "swdPhotos", Kind: FieldPhotos, Label: "SWD photo", Slots: 1},
						},
					},
				},
			},
			{
				ID:    "q6",
				Label: "Is SCP signboard/QR visible?",
				Kind:  QuestionBoolean,
				Branches: []BranchRule{
					{
						When: BranchAny,
						Fields: []SubFieldDef{
							{Key: "signboardPhoto", Kind: FieldPhotos, Label: "signboard photo", Slots: 1},
						},
					},
				},
			},
			{
				ID:    "q7",
				Label: "Third-party dumping observed?",
				Kind:  QuestionBoolean,
				Branches: []BranchRule{
					{
						When: AnswerYes,
						Fields: []SubFieldDef{
							{Key: "dumpingPhoto", Kind: FieldPhotos, Label: "dumping photo", Slots: 1},
						},
					},
				},
			},
			{
				ID:    "q8",
				Label: "Leachate visible?",
				Kind:  QuestionBoolean,
				Branches: []BranchRule{
					{
						When: BranchAny,
						Fields: []SubFieldDef{
							{Key: "leachatePhoto", Kind: FieldPhotos, Label: "leachate photo", Slots: 1},
						},
					},
				},
			},
			{
				ID:    "q9",
				Label: "Stray animals present?",
				Kind:  QuestionBoolean,
				Branches: []BranchRule{
					{
						When: BranchAny,
						Fields: []SubFieldDef{
							{Key: "strayAnimalsPhoto", Kind: FieldPhotos, Label: "stray animals photo", Slots: 1},
						},
					},
				},
			},
		},
	}
}

// TwinbinChecklist is the litter-bin inspection: ten yes/no questions,
// every answer required, photos optional.
func TwinbinChecklist() *Questionnaire {
	labels := []string{
		"Are adequate litter bins provided in the area?",
		"Are the litter bins properly fixed and securely installed?",
		"Are the litter bins provided with lids/covers?",
		"Is the ULB/Municipal logo or code clearly displayed?",
		"Is waste found scattered around the litter bins?",
		"Are any litter bins damaged or in poor condition?",
		"Is an animal-proof locking mechanism provided?",
		"Are the litter bins easily accessible to the public?",
		"Are the litter bins being used properly by citizens?",
		"Are the litter bins regularly cleaned and maintained?",
	}

	questions := make([]QuestionDef, 0, len(labels))
	for i, label := range labels {
		questions = append(questions, QuestionDef{
			ID:    fmt.Sprintf("q%d", i+1),
			Label: label,
			Kind:  QuestionBoolean,
		})
	}
	return &Questionnaire{Name: "twinbin-checklist", Questions: questions}
}

// SweepingBeatQuestionnaire is the street-sweeping beat inspection.
func SweepingBeatQuestionnaire() *Questionnaire {
	return &Questionnaire{
		Name: "sweeping-beat-inspection",
		Questions: []QuestionDef{
			{ID: "q1", Label: "Is sweeping done on this beat today?", Kind: QuestionBoolean},
			{ID: "q2", Label: "How many times is sweeping done in a day?", Kind: QuestionChoice, Options: []string{"Once", "Twice", "More"}},
			{ID: "q3", Label: "Is sweeping done as per prescribed frequency?", Kind: QuestionBoolean},
			{ID: "q4", Label: "Is the entire beat properly cleaned?", Kind: QuestionBoolean},
			{ID: "q5", Label: "Is any litter visible after sweeping?", Kind: QuestionBoolean},
			{ID: "q6", Label: "Is sanitation worker present?", Kind: QuestionBoolean},
			{ID: "q7", Label: "Is sanitation worker wearing complete PPE?", Kind: QuestionBoolean},
			{ID: "q8", Label: "Type of road", Kind: QuestionChoice, Options: []string{"Single lane", "Two lane", "Four lane"}},
			{ID: "q9", Label: "Is this a major / 4 lane road?", Kind: QuestionBoolean},
			{ID: "q10", Label: "Is mechanized sweeping required?", Kind: QuestionBoolean},
			{ID: "q11", Label: "Is mechanized sweeping happening?", Kind: QuestionBoolean},
			{ID: "q12", Label: "Any Garbage Vulnerable Point observed?", Kind: QuestionBoolean},
			{
				ID:       "q13",
				Label:    "If yes, is GVP cleaned regularly?",
				Kind:     QuestionBoolean,
				Requires: &DependsOn{QuestionID: "q12", Value: AnswerYes},
			},
			{ID: "q14", Label: "Any C&D waste found?", Kind: QuestionBoolean},
			{ID: "q15", Label: "Resident Name / Mobile / Address", Kind: QuestionText},
			{ID: "q16", Label: "Resident says sweeping frequency", Kind: QuestionChoice, Options: []string{"Daily", "Twice daily", "Alternate", "Irregular"}},
			{ID: "q17", Label: "Is beat cleaned as per standards?", Kind: QuestionBoolean},
			{ID: "q18", Label: "Overall cleanliness", Kind: QuestionChoice, Options: []string{"Good", "Satisfactory", "Poor"}},
			{ID: "q19", Label: "Remarks", Kind: QuestionText},
		},
	}
}
