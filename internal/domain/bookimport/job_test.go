package bookimport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLifecycle(t *testing.T) {
	j := NewJob(3, 7)
	assert.Equal(t, JobPending, j.Status)
	assert.NotEmpty(t, j.ID)

	j.Progress(1, 3)
	assert.Equal(t, JobProcessing, j.Status)
	assert.Equal(t, 1, j.Processed)

	j.Finish(2, []string{"Linha 3: falhou"})
	assert.Equal(t, JobCompleted, j.Status)
	assert.Equal(t, 3, j.Processed)
	assert.Equal(t, 2, j.Success)
	assert.Equal(t, 1, j.Failed)
	require.NotNil(t, j.FinishedAt)
}

func TestJobFail(t *testing.T) {
	j := NewJob(1, 7)
	j.Fail(errors.New("panic"))
	assert.Equal(t, JobFailed, j.Status)
	assert.Equal(t, []string{"panic"}, j.Errors)
}
