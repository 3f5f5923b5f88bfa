package domain

import (
	"fmt"
	"strings"
	"sync"
)

// Boolean answers use the same wire values the field apps send.
const (
	AnswerYes = "YES"
	AnswerNo  = "NO"
)

// BranchAny marks a branch rule that applies whenever the question is
// reached, regardless of the primary answer.
const BranchAny = "*"

type QuestionKind string

const (
	QuestionBoolean QuestionKind = "boolean"
	QuestionChoice  QuestionKind = "choice"
	QuestionText    QuestionKind = "text"
)

type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldCount  FieldKind = "count"
	FieldPhotos FieldKind = "photos"
)

// SubFieldDef is a conditionally-required follow-up field of a question:
// free text, a count, or a fixed number of photo slots.
type SubFieldDef struct {
	Key   string
	Kind  FieldKind
	Label string
	Slots int // photo slot count; meaningful for FieldPhotos only
}

// BranchRule declares which sub-fields become required under which
// answer. When is a primary answer value or BranchAny. WhenField, if
// set, additionally conditions the rule on a sub-field value, e.g.
// "outside waste photo required only when outsideWaste is YES".
type BranchRule struct {
	When           string
	WhenField      string
	WhenFieldValue string
	Fields         []SubFieldDef
}

// DependsOn makes a question's primary answer required only while
// another question holds a specific answer.
type DependsOn struct {
	QuestionID string
	Value      string
}

type QuestionDef struct {
	ID       string
	Label    string
	Kind     QuestionKind
	Options  []string // for QuestionChoice
	Optional bool     // primary answer never required
	Requires *DependsOn
	Branches []BranchRule
}

// Questionnaire is a fixed, ordered set of question definitions. The
// same table drives both rendering and validation so the two cannot
// drift apart.
type Questionnaire struct {
	Name      string
	Questions []QuestionDef
}

func (q *Questionnaire) question(id string) *QuestionDef {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i]
		}
	}
	return nil
}

// UnmetRequirement points at the first missing answer or sub-field found
// by Validate. FieldKey is empty when the primary answer itself is
// missing.
type UnmetRequirement struct {
	QuestionID string `json:"question_id"`
	FieldKey   string `json:"field_key,omitempty"`
	Message    string `json:"message"`
}

// Answer holds the state of one question: the primary value, sub-field
// values and photo slots keyed by sub-field key.
type Answer struct {
	Value  string              `json:"value"`
	Fields map[string]string   `json:"fields,omitempty"`
	Photos map[string][]string `json:"photos,omitempty"`
}

// AnswerSetState is the coarse lifecycle of an answer set. Invalidity is
// never a stored state; it is only reported transiently by Validate.
type AnswerSetState string

const (
	StateEmpty             AnswerSetState = "EMPTY"
	StatePartiallyAnswered AnswerSetState = "PARTIALLY_ANSWERED"
	StateValid             AnswerSetState = "VALID"
)

// AnswerSet is the in-memory answer state for one report session. The
// HTTP handlers and the position worker may touch the same session
// concurrently, so every method serializes on the set's own mutex.
type AnswerSet struct {
	def *Questionnaire

	mu      sync.RWMutex
	answers map[string]*Answer
}

func NewAnswerSet(def *Questionnaire) *AnswerSet {
	return &AnswerSet{
		def:     def,
		answers: make(map[string]*Answer, len(def.Questions)),
	}
}

func (s *AnswerSet) Definition() *Questionnaire {
	return s.def
}

func (s *AnswerSet) answerFor(questionID string) *Answer {
	a, ok := s.answers[questionID]
	if !ok {
		a = &Answer{
			Fields: make(map[string]string),
			Photos: make(map[string][]string),
		}
		s.answers[questionID] = a
	}
	return a
}

// SetAnswer records the primary answer for a question. No validation
// happens eagerly, but sub-field values belonging to branches that no
// longer apply are cleared, so switching YES to NO cannot leave phantom
// satisfied-but-irrelevant data behind.
func (s *AnswerSet) SetAnswer(questionID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.def.question(questionID)
	if q == nil {
		return fmt.Errorf("unknown question %q", questionID)
	}
	if q.Kind == QuestionChoice && value != "" && !contains(q.Options, value) {
		return fmt.Errorf("question %q: %q is not one of %s", questionID, value, strings.Join(q.Options, ", "))
	}
	if q.Kind == QuestionBoolean && value != "" && value != AnswerYes && value != AnswerNo {
		return fmt.Errorf("question %q: boolean answer must be %s or %s", questionID, AnswerYes, AnswerNo)
	}

	a := s.answerFor(questionID)
	if a.Value == value {
		return nil
	}
	a.Value = value
	s.clearStaleFields(q, a)
	return nil
}

// clearStaleFields drops sub-field and photo values owned exclusively by
// branches that do not match the current primary answer.
func (s *AnswerSet) clearStaleFields(q *QuestionDef, a *Answer) {
	keep := make(map[string]bool)
	for _, b := range q.Branches {
		if b.When == BranchAny || b.When == a.Value {
			for _, f := range b.Fields {
				keep[f.Key] = true
			}
			// A conditioning sub-field stays with its branch.
			if b.WhenField != "" {
				keep[b.WhenField] = true
			}
		}
	}
	for key := range a.Fields {
		if !keep[key] {
			delete(a.Fields, key)
		}
	}
	for key := range a.Photos {
		if !keep[key] {
			delete(a.Photos, key)
		}
	}
}

// SetSubField records a text or count sub-field value.
func (s *AnswerSet) SetSubField(questionID, fieldKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q := s.def.question(questionID); q == nil {
		return fmt.Errorf("unknown question %q", questionID)
	}
	a := s.answerFor(questionID)
	if value == "" {
		delete(a.Fields, fieldKey)
		return nil
	}
	a.Fields[fieldKey] = value
	return nil
}

// SetPhoto records an uploaded photo reference into a slot of a photo
// sub-field. Slots are independent: a failed upload for one slot does
// not invalidate references already stored in others.
func (s *AnswerSet) SetPhoto(questionID, fieldKey string, slot int, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.def.question(questionID)
	if q == nil {
		return fmt.Errorf("unknown question %q", questionID)
	}
	slots := photoSlots(q, fieldKey)
	if slots == 0 {
		return fmt.Errorf("question %q has no photo field %q", questionID, fieldKey)
	}
	if slot < 0 || slot >= slots {
		return fmt.Errorf("question %q field %q: slot %d out of range [0,%d)", questionID, fieldKey, slot, slots)
	}

	a := s.answerFor(questionID)
	if a.Photos[fieldKey] == nil {
		a.Photos[fieldKey] = make([]string, slots)
	}
	a.Photos[fieldKey][slot] = url
	return nil
}

func photoSlots(q *QuestionDef, fieldKey string) int {
	for _, b := range q.Branches {
		for _, f := range b.Fields {
			if f.Key == fieldKey && f.Kind == FieldPhotos {
				if f.Slots > 0 {
					return f.Slots
				}
				return 1
			}
		}
	}
	return 0
}

// Validate walks the question sequence in declared order and returns the
// first unmet requirement, or nil when every question and every
// applicable conditional sub-field is satisfied. First failure wins:
// the field worker gets one actionable error at a time.
func (s *AnswerSet) Validate() *UnmetRequirement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validateLocked()
}

func (s *AnswerSet) validateLocked() *UnmetRequirement {
	for i := range s.def.Questions {
		q := &s.def.Questions[i]
		a := s.answers[q.ID]

		value := ""
		if a != nil {
			value = a.Value
		}

		if value == "" {
			if s.answerRequired(q) {
				return &UnmetRequirement{
					QuestionID: q.ID,
					Message:    fmt.Sprintf("%s: %s", strings.ToUpper(q.ID), q.Label),
				}
			}
		} else if q.Kind == QuestionChoice && !contains(q.Options, value) {
			return &UnmetRequirement{
				QuestionID: q.ID,
				Message:    fmt.Sprintf("%s: invalid choice %q", strings.ToUpper(q.ID), value),
			}
		}

		for _, b := range q.Branches {
			if !branchApplies(&b, a, value) {
				continue
			}
			if unmet := firstUnmetField(q, &b, a); unmet != nil {
				return unmet
			}
		}
	}
	return nil
}

func (s *AnswerSet) answerRequired(q *QuestionDef) bool {
	if q.Optional {
		return false
	}
	if q.Requires != nil {
		dep := s.answers[q.Requires.QuestionID]
		return dep != nil && dep.Value == q.Requires.Value
	}
	return true
}

func branchApplies(b *BranchRule, a *Answer, value string) bool {
	if b.When != BranchAny && b.When != value {
		return false
	}
	if b.When != BranchAny && value == "" {
		return false
	}
	if b.WhenField != "" {
		if a == nil || a.Fields[b.WhenField] != b.WhenFieldValue {
			return false
		}
	}
	return true
}

func firstUnmetField(q *QuestionDef, b *BranchRule, a *Answer) *UnmetRequirement {
	for _, f := range b.Fields {
		switch f.Kind {
		case FieldPhotos:
			slots := f.Slots
			if slots == 0 {
				slots = 1
			}
			if a == nil || !photosComplete(a.Photos[f.Key], slots) {
				return &UnmetRequirement{
					QuestionID: q.ID,
					FieldKey:   f.Key,
					Message:    fmt.Sprintf("%s: %s", strings.ToUpper(q.ID), f.Label),
				}
			}
		default:
			if a == nil || a.Fields[f.Key] == "" {
				return &UnmetRequirement{
					QuestionID: q.ID,
					FieldKey:   f.Key,
					Message:    fmt.Sprintf("%s: %s", strings.ToUpper(q.ID), f.Label),
				}
			}
		}
	}
	return nil
}

// photosComplete reports whether every slot of a multi-photo field holds
// a reference. Uploads complete independently and unordered; the field
// counts as satisfied only once all slots are non-empty.
func photosComplete(urls []string, slots int) bool {
	if len(urls) < slots {
		return false
	}
	for i := 0; i < slots; i++ {
		if urls[i] == "" {
			return false
		}
	}
	return true
}

// State reports the coarse lifecycle: Empty until any answer lands,
// Valid once Validate passes, PartiallyAnswered in between.
func (s *AnswerSet) State() AnswerSetState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	touched := false
	for _, a := range s.answers {
		if a.Value != "" || len(a.Fields) > 0 || len(a.Photos) > 0 {
			touched = true
			break
		}
	}
	if !touched {
		return StateEmpty
	}
	if s.validateLocked() == nil {
		return StateValid
	}
	return StatePartiallyAnswered
}

// Snapshot copies the answers into a standalone payload, ordered by the
// questionnaire definition. The copy is what gets submitted; the live
// set stays untouched so a failed submit loses nothing.
func (s *AnswerSet) Snapshot() map[string]Answer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Answer, len(s.answers))
	for _, q := range s.def.Questions {
		a, ok := s.answers[q.ID]
		if !ok {
			continue
		}
		copied := Answer{Value: a.Value}
		if len(a.Fields) > 0 {
			copied.Fields = make(map[string]string, len(a.Fields))
			for k, v := range a.Fields {
				copied.Fields[k] = v
			}
		}
		if len(a.Photos) > 0 {
			copied.Photos = make(map[string][]string, len(a.Photos))
			for k, v := range a.Photos {
				copied.Photos[k] = append([]string(nil), v...)
			}
		}
		out[q.ID] = copied
	}
	return out
}

func contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
