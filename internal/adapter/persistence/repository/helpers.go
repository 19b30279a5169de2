package repository

import (
	"errors"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const conditionalCheckFailed = "ConditionalCheckFailed"

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseTime(s)
	return &t
}

// Hold expiry is stored as unix milliseconds so condition expressions can
// compare it numerically.
func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillisPtr(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

func intToString(v int64) string {
	return strconv.FormatInt(v, 10)
}

func isConditionalCheckFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return errors.As(err, &cfe)
}

// canceledReasons returns the per-item cancellation codes of a failed
// TransactWriteItems call, or nil if err is not a transaction cancellation.
func canceledReasons(err error) []string {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return nil
	}
	codes := make([]string, len(tce.CancellationReasons))
	for i, r := range tce.CancellationReasons {
		codes[i] = aws.ToString(r.Code)
	}
	return codes
}

func strAV(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

func numAV(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: intToString(n)}
}

// exprNames maps "#attr" placeholders to attribute names. DynamoDB rejects
// unused placeholders, so callers pass exactly the attributes they reference.
func exprNames(attrs ...string) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		out["#"+a] = a
	}
	return out
}
