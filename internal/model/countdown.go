package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrMalformedRecord = errors.New("model: malformed countdown record")

// CountdownRecord is the persisted countdown state. CompletedAt holds epoch
// milliseconds, newest first.
type CountdownRecord struct {
	CurrentNotificationID string
	CompletedAt           []int64
}

type countdownRecordJSON struct {
	CurrentNotificationID *string `json:"currentNotificationId,omitempty"`
	CompletedAtTimestamps []int64 `json:"completedAtTimestamps"`
}

func (r CountdownRecord) HasNotification() bool {
	return strings.TrimSpace(r.CurrentNotificationID) != ""
}

// LastCompleted returns the most recent completion time.
func (r CountdownRecord) LastCompleted() (time.Time, bool) {
	if len(r.CompletedAt) == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(r.CompletedAt[0]), true
}

// Complete returns a new record with at prepended to the history and the
// notification id replaced. The receiver is not modified.
func (r CountdownRecord) Complete(at time.Time, notificationID string) CountdownRecord {
	history := make([]int64, 0, len(r.CompletedAt)+1)
	history = append(history, at.UnixMilli())
	history = append(history, r.CompletedAt...)
	return CountdownRecord{
		CurrentNotificationID: strings.TrimSpace(notificationID),
		CompletedAt:           history,
	}
}

func (r CountdownRecord) Clone() CountdownRecord {
	out := CountdownRecord{CurrentNotificationID: r.CurrentNotificationID}
	if r.CompletedAt != nil {
		out.CompletedAt = append([]int64(nil), r.CompletedAt...)
	}
	return out
}

func (r CountdownRecord) Equal(other CountdownRecord) bool {
	if r.CurrentNotificationID != other.CurrentNotificationID {
		return false
	}
	if len(r.CompletedAt) != len(other.CompletedAt) {
		return false
	}
	for i := range r.CompletedAt {
		if r.CompletedAt[i] != other.CompletedAt[i] {
			return false
		}
	}
	return true
}

func (r CountdownRecord) MarshalJSON() ([]byte, error) {
	out := countdownRecordJSON{CompletedAtTimestamps: r.CompletedAt}
	if out.CompletedAtTimestamps == nil {
		out.CompletedAtTimestamps = []int64{}
	}
	if r.HasNotification() {
		id := r.CurrentNotificationID
		out.CurrentNotificationID = &id
	}
	return json.Marshal(out)
}

// UnmarshalJSON checks the shape of the stored object instead of trusting it:
// completedAtTimestamps must be an array of integers and currentNotificationId,
// when present, a string or null.
func (r *CountdownRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: expected object", ErrMalformedRecord)
	}

	var out CountdownRecord
	if raw, ok := fields["currentNotificationId"]; ok && !isJSONNull(raw) {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return fmt.Errorf("%w: currentNotificationId must be a string", ErrMalformedRecord)
		}
		out.CurrentNotificationID = id
	}

	raw, ok := fields["completedAtTimestamps"]
	if !ok || isJSONNull(raw) {
		return fmt.Errorf("%w: completedAtTimestamps is required", ErrMalformedRecord)
	}
	var stamps []json.RawMessage
	if err := json.Unmarshal(raw, &stamps); err != nil {
		return fmt.Errorf("%w: completedAtTimestamps must be an array", ErrMalformedRecord)
	}
	out.CompletedAt = make([]int64, 0, len(stamps))
	for i, item := range stamps {
		v, err := strconv.ParseInt(string(bytes.TrimSpace(item)), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: completedAtTimestamps[%d] is not an integer", ErrMalformedRecord, i)
		}
		out.CompletedAt = append(out.CompletedAt, v)
	}

	*r = out
	return nil
}

func EncodeCountdownRecord(r CountdownRecord) (string, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func DecodeCountdownRecord(raw string) (CountdownRecord, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return CountdownRecord{}, fmt.Errorf("%w: empty payload", ErrMalformedRecord)
	}
	var out CountdownRecord
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		if errors.Is(err, ErrMalformedRecord) {
			return CountdownRecord{}, err
		}
		return CountdownRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return out, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
