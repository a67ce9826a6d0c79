package proposal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidInput is returned when a proposal payload has fields of the wrong type.
var ErrInvalidInput = errors.New("invalid input")

// Data is the input record handed to every analysis.
// Absent fields decode to their zero values, which are the documented defaults:
// empty text and no required keywords.
type Data struct {
	DocumentText     string   `json:"documentText,omitempty"`
	RequiredKeywords []string `json:"requiredKeywords,omitempty"`
}

// Stage is the workflow stage label. Analyses pass it through without interpreting it.
type Stage string

const (
	StageEarly Stage = "early"
	StageMid   Stage = "mid"
	StageLate  Stage = "late"
)

// IsKnown reports whether s is one of the conventional stage labels.
func (s Stage) IsKnown() bool {
	switch s {
	case StageEarly, StageMid, StageLate:
		return true
	}
	return false
}

// Decode reads a JSON proposal payload. Type mismatches (for example a numeric
// documentText) are reported as ErrInvalidInput; unknown fields are ignored.
func Decode(r io.Reader) (Data, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Data{}, fmt.Errorf("%w: JSON parse failed: %s", ErrInvalidInput, err)
	}

	var d Data
	if v, ok := raw["documentText"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &d.DocumentText); err != nil {
			return Data{}, fmt.Errorf("%w: documentText must be a string", ErrInvalidInput)
		}
	}
	if v, ok := raw["requiredKeywords"]; ok && !isNull(v) {
		kws, err := decodeKeywords(v)
		if err != nil {
			return Data{}, err
		}
		d.RequiredKeywords = kws
	}
	return d, nil
}

// decodeKeywords requires every element to be a JSON string. A null element
// would otherwise decode to "" and match every document.
func decodeKeywords(v json.RawMessage) ([]string, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil {
		return nil, fmt.Errorf("%w: requiredKeywords must be an array of strings", ErrInvalidInput)
	}
	kws := make([]string, 0, len(elems))
	for i, e := range elems {
		var kw string
		if isNull(e) || json.Unmarshal(e, &kw) != nil {
			return nil, fmt.Errorf("%w: requiredKeywords[%d] must be a string", ErrInvalidInput, i)
		}
		kws = append(kws, kw)
	}
	return kws, nil
}

func isNull(v json.RawMessage) bool {
	return string(v) == "null"
}
