package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Question string `json:"question" validate:"required"`
	Quality  *int   `json:"quality"  validate:"required,min=0,max=5"`
}

type selfValidating struct {
	Value string `json:"value"`
}

func (s selfValidating) Validate() error {
	if s.Value == "" {
		return errors.New("value required")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		errContains string
	}{
		{name: "valid json", body: `{"question":"q","quality":3}`},
		{name: "invalid json", body: `{"question":"q",}`, wantErr: true, errContains: "invalid character"},
		{name: "empty body", body: "", wantErr: true, errContains: ErrEmptyBody.Error()},
		{name: "unknown field", body: `{"question":"q","extra":1}`, wantErr: true, errContains: "unknown field"},
		{name: "wrong type", body: `{"question":5}`, wantErr: true, errContains: "cannot unmarshal"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var target sampleRequest
			err := DecodeJSON(req, &target)
			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "q", target.Question)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()
	three, six := 3, 6

	assert.NoError(t, ValidateRequest(&sampleRequest{Question: "q", Quality: &three}))

	err := ValidateRequest(&sampleRequest{Question: "q", Quality: &six})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "max", verrs[0].Tag())

	err = ValidateRequest(&sampleRequest{Quality: &three})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Question", verrs[0].Field())

	assert.EqualError(t, ValidateRequest(selfValidating{}), "value required")
	assert.NoError(t, ValidateRequest(selfValidating{Value: "x"}))
}
