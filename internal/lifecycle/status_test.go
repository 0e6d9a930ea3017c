package lifecycle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextWalksPipelineInOrder(t *testing.T) {
	wantNames := []string{"Initiated", "In Progress", "Review", "Completed", "Delivered"}
	wantPercent := []int{0, 25, 50, 75, 100}

	s := Initiated
	for i := range wantNames {
		assert.Equal(t, wantNames[i], s.String())
		assert.Equal(t, wantPercent[i], s.Percentage())
		if i == len(wantNames)-1 {
			break
		}
		next, err := s.Next()
		require.NoError(t, err)
		s = next
	}
	assert.Equal(t, Delivered, s)
}

func TestDeliveredIsTerminal(t *testing.T) {
	next, err := Delivered.Next()

	assert.ErrorIs(t, err, ErrTerminal)
	assert.Equal(t, Delivered, next)
	assert.True(t, Delivered.Terminal())
	assert.False(t, Completed.Terminal())
}

func TestUnknownStatus(t *testing.T) {
	bogus := Status(42)

	_, err := bogus.Next()
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.False(t, bogus.Valid())
	assert.Equal(t, "Status(42)", bogus.String())

	_, err = Parse("Shipped")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestParseRoundTrip(t *testing.T) {
	for _, s := range All() {
		parsed, err := Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestJSONUsesNames(t *testing.T) {
	payload := struct {
		Status Status `json:"status"`
	}{Status: InProgress}

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"In Progress"}`, string(b))

	var decoded struct {
		Status Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Review"}`), &decoded))
	assert.Equal(t, Review, decoded.Status)
}

func TestScanValue(t *testing.T) {
	v, err := Completed.Value()
	require.NoError(t, err)
	assert.Equal(t, "Completed", v)

	var s Status
	require.NoError(t, s.Scan([]byte("Delivered")))
	assert.Equal(t, Delivered, s)
	assert.Error(t, s.Scan(7))
}
