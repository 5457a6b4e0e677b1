package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
)

type recordingStore struct {
	rows []models.NewSubmission
	err  error
	ctx  context.Context
}

func (r *recordingStore) InsertSubmission(ctx context.Context, s models.NewSubmission) error {
	r.ctx = ctx
	r.rows = append(r.rows, s)
	return r.err
}

func TestSubmitEmptyBodyNeverReachesStore(t *testing.T) {
	for _, body := range []string{"", "   ", "\n\t"} {
		s := &recordingStore{}
		p := NewPipeline(s, time.Second)

		res := p.Submit(context.Background(), Input{Name: "Pat", Body: body})

		assert.False(t, res.Success)
		assert.Equal(t, "Please enter your submission", res.Error)
		var verr *ValidationError
		require.ErrorAs(t, res.Err, &verr)
		assert.Equal(t, "body", verr.Field)
		assert.Empty(t, s.rows, "store must not be called for %q", body)
	}
}

func TestSubmitNormalizesOptionalFields(t *testing.T) {
	s := &recordingStore{}
	p := NewPipeline(s, time.Second)

	res := p.Submit(context.Background(), Input{Name: "  ", Email: "", Body: "Dear Guy, is a hammer a tool or a lifestyle?"})
	require.True(t, res.Success)
	assert.Empty(t, res.Error)

	require.Len(t, s.rows, 1)
	assert.Nil(t, s.rows[0].Name)
	assert.Nil(t, s.rows[0].Email)
	assert.False(t, s.rows[0].Used)

	_, hasDeadline := s.ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestSubmitKeepsProvidedFields(t *testing.T) {
	s := &recordingStore{}
	p := NewPipeline(s, 0)

	res := p.Submit(context.Background(), Input{Name: " Pat ", Email: "pat@example.com", Body: "Hello"})
	require.True(t, res.Success)
	require.NotNil(t, s.rows[0].Name)
	assert.Equal(t, "Pat", *s.rows[0].Name)
	require.NotNil(t, s.rows[0].Email)
	assert.Equal(t, "pat@example.com", *s.rows[0].Email)
}

func TestSubmitRejectsBadEmail(t *testing.T) {
	s := &recordingStore{}
	res := NewPipeline(s, 0).Submit(context.Background(), Input{Email: "not-an-email", Body: "Hello"})

	assert.False(t, res.Success)
	assert.Equal(t, "Please enter a valid email address", res.Error)
	assert.Empty(t, s.rows)
}

func TestSubmitSurfacesStoreMessage(t *testing.T) {
	s := &recordingStore{err: &store.TransportError{
		Resource: query.ResourceSubmissions,
		Op:       "insert",
		Status:   403,
		Message:  "new row violates row-level security policy",
	}}
	res := NewPipeline(s, 0).Submit(context.Background(), Input{Body: "Hello"})

	assert.False(t, res.Success)
	assert.Equal(t, "new row violates row-level security policy", res.Error)
	var te *store.TransportError
	assert.ErrorAs(t, res.Err, &te)
}

func TestSubmitWrapsPlainErrors(t *testing.T) {
	s := &recordingStore{err: errors.New("connection reset")}
	res := NewPipeline(s, 0).Submit(context.Background(), Input{Body: "Hello"})

	assert.False(t, res.Success)
	assert.Equal(t, "connection reset", res.Error)
}

func TestSubmitTwiceInsertsTwice(t *testing.T) {
	s := &recordingStore{}
	p := NewPipeline(s, 0)
	in := Input{Body: "Same thing, twice."}

	assert.True(t, p.Submit(context.Background(), in).Success)
	assert.True(t, p.Submit(context.Background(), in).Success)
	assert.Len(t, s.rows, 2)
}

func TestMustRegisterFailsLoudly(t *testing.T) {
	v := validator.New()
	assert.PanicsWithValue(t, `registering "notblank" validation: function cannot be empty`, func() {
		mustRegister(v, "notblank", nil)
	})
	assert.NotPanics(t, func() { NewPipeline(&recordingStore{}, time.Second) })
}
