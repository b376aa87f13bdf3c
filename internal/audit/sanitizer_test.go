package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_RedactsDenylistedKeys(t *testing.T) {
	out := Sanitize(map[string]interface{}{
		"nome":     "Mario",
		"password": "x",
		"token":    "y",
		"field":    "z",
	})

	assert.Equal(t, map[string]interface{}{
		"nome":     "Mario",
		"password": RedactedMarker,
		"token":    RedactedMarker,
		"field":    "z",
	}, out)
}

func TestSanitize_IsCaseInsensitiveAndCatchesComposedKeys(t *testing.T) {
	out := Sanitize(map[string]interface{}{
		"PASSWORD":     "x",
		"accessToken":  "y",
		"userPassword": "z",
		"apikey":       "k",
		"diagnosis":    "Polmonite",
	})

	assert.Equal(t, RedactedMarker, out["PASSWORD"])
	assert.Equal(t, RedactedMarker, out["accessToken"])
	assert.Equal(t, RedactedMarker, out["userPassword"])
	assert.Equal(t, RedactedMarker, out["apikey"])
	assert.Equal(t, "Polmonite", out["diagnosis"])
}

func TestSanitize_DoesNotMutateInput(t *testing.T) {
	in := map[string]interface{}{"password": "x"}
	_ = Sanitize(in)
	assert.Equal(t, "x", in["password"])
}

func TestSanitize_NilInput(t *testing.T) {
	assert.Nil(t, Sanitize(nil))
}
