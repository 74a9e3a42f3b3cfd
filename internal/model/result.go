package model

// ConsistencyResult classifies datetime tags into repair buckets.
// If Fatal is non-empty no other bucket is populated: an anchor
// failure halts all further checking.
type ConsistencyResult struct {
	Fatal     map[string]string `yaml:"fatal,omitempty" json:"fatal,omitempty"`         // tag -> reason, terminal
	Fixable   map[string]string `yaml:"fixable,omitempty" json:"fixable,omitempty"`     // tag -> replacement value
	Deletable map[string]string `yaml:"deletable,omitempty" json:"deletable,omitempty"` // tag -> reason(s), "; "-joined
}

// Empty reports whether no issues were found
func (r *ConsistencyResult) Empty() bool {
	return r == nil || (len(r.Fatal) == 0 && len(r.Fixable) == 0 && len(r.Deletable) == 0)
}

// SetFatal records a terminal anchor failure
func (r *ConsistencyResult) SetFatal(tag, reason string) {
	if r.Fatal == nil {
		r.Fatal = make(map[string]string)
	}
	r.Fatal[tag] = reason
}

// SetFixable records a proposed replacement value for a tag
func (r *ConsistencyResult) SetFixable(tag, value string) {
	if r.Fixable == nil {
		r.Fixable = make(map[string]string)
	}
	r.Fixable[tag] = value
}

// AddDeletable records a removal reason for a tag, accumulating
// multiple reasons with "; " between them
func (r *ConsistencyResult) AddDeletable(tag, reason string) {
	if r.Deletable == nil {
		r.Deletable = make(map[string]string)
	}
	if prev, ok := r.Deletable[tag]; ok {
		r.Deletable[tag] = prev + "; " + reason
	} else {
		r.Deletable[tag] = reason
	}
}
