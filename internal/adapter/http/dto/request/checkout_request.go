package request

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrBoxesNotArray = errors.New("boxes must be a non-empty array")
)

// CreatePaymentIntentRequest is the checkout payload: {"boxes": ["A", "B"]}.
//
// Boxes is decoded loosely so non-string entries are coerced rather than
// rejected; normalization drops anything that is not a box id afterwards.
type CreatePaymentIntentRequest struct {
	Boxes any `json:"boxes"`
}

// ResolveBoxes returns the requested ids as strings. A missing, non-array or
// empty "boxes" field is an error.
func (r CreatePaymentIntentRequest) ResolveBoxes() ([]string, error) {
	raw, ok := r.Boxes.([]any)
	if !ok || len(raw) == 0 {
		return nil, ErrBoxesNotArray
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, coerceString(v))
	}
	return out, nil
}

func coerceString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "null"
	default:
		return fmt.Sprint(x)
	}
}
