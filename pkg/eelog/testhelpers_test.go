package eelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sessionLog = `0.100 Sys [Info]: Logged in Tenno
1.000 Sys [Diag]: Current time: Mon Jan 01 11:00:01 2024 [UTC: Mon Jan 01 10:00:01 2024]
12.5 Game [Info]: Lotus was downed by from a Grineer Lancer damage 45.0 / 0.0
20.000 Game [Info]: Tenno was killed by from a Grineer Heavy Gunner damage 150 / 1200.5
20.000 Game [Warning]: Tenno took high dmg: 1.2e3 damage
30.000 Game [Warning]: Unit took high dmg: 1.2e4
30.000 Game [Warning]: Secondary damage event
40.000 Script [Info]: Mission end
`

// writeLog writes contents to a fresh EE.log and sets its modification time.
func writeLog(t *testing.T, dir, contents string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, "EE.log")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func appendLog(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(line)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

var baseMod = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
