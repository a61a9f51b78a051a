package resolve

// AnswerSet is an ordered mapping of question id to resolved answer value.
// Insertion order follows question-bank order so downstream encoding is
// deterministic.
type AnswerSet struct {
	ids    []string
	values map[string]string
}

// NewAnswerSet returns an empty answer set.
func NewAnswerSet() *AnswerSet {
	return &AnswerSet{values: make(map[string]string)}
}

// Set records the answer for a question id, appending it on first sight.
func (a *AnswerSet) Set(id, value string) {
	if _, exists := a.values[id]; !exists {
		a.ids = append(a.ids, id)
	}
	a.values[id] = value
}

// Get returns the answer for id.
func (a *AnswerSet) Get(id string) (string, bool) {
	v, ok := a.values[id]
	return v, ok
}

// IDs returns the answered question ids in insertion order.
func (a *AnswerSet) IDs() []string {
	out := make([]string, len(a.ids))
	copy(out, a.ids)
	return out
}

// Len returns the number of answers.
func (a *AnswerSet) Len() int {
	return len(a.ids)
}
