package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibelab/promptrec/internal/core/domain"
)

func TestDeleteCmd_Use(t *testing.T) {
	assert.Equal(t, "delete [id]", deleteCmd.Use)
}

func TestDeleteCmd_RemovesRecord(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	store := promptStore.(*mockStore)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"delete", "p-1"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	assert.Equal(t, []string{"p-1"}, store.deleted)
	assert.Contains(t, buf.String(), "Deleted prompt p-1")
}

func TestDeleteCmd_UnknownID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"delete", "no-such-id"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCmd_StoreNotConfigured(t *testing.T) {
	oldStore := promptStore
	promptStore = nil
	defer func() { promptStore = oldStore }()

	err := runDelete(deleteCmd, []string{"p-1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "prompt store not configured")
}
