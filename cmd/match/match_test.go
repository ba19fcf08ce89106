package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/ynab-autocat/cmd/match"
)

func TestMatchCommand_Metadata(t *testing.T) {
	assert.Equal(t, "match", match.Cmd.Use)
	assert.Contains(t, match.Cmd.Short, "Probe the matcher")
	assert.NotNil(t, match.Cmd.RunE)
}

func TestMatchCommand_Flags(t *testing.T) {
	payeeFlag := match.Cmd.Flags().Lookup("payee")
	require.NotNil(t, payeeFlag)
	assert.Equal(t, "p", payeeFlag.Shorthand)

	payeeIDFlag := match.Cmd.Flags().Lookup("payee-id")
	require.NotNil(t, payeeIDFlag)

	importNameFlag := match.Cmd.Flags().Lookup("import-name")
	require.NotNil(t, importNameFlag)

	accountFlag := match.Cmd.Flags().Lookup("account")
	require.NotNil(t, accountFlag)

	amountFlag := match.Cmd.Flags().Lookup("amount")
	require.NotNil(t, amountFlag)
	assert.Equal(t, "a", amountFlag.Shorthand)
	assert.Equal(t, "0", amountFlag.DefValue)

	dateFlag := match.Cmd.Flags().Lookup("date")
	require.NotNil(t, dateFlag)
	assert.Equal(t, "t", dateFlag.Shorthand)

	memoFlag := match.Cmd.Flags().Lookup("memo")
	require.NotNil(t, memoFlag)
	assert.Equal(t, "m", memoFlag.Shorthand)

	aiFlag := match.Cmd.Flags().Lookup("ai")
	require.NotNil(t, aiFlag)
}
