package diff_test

import (
	"testing"

	"reviewd/internal/diff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/internal/server/server.go b/internal/server/server.go
index 1234567..89abcde 100644
--- a/internal/server/server.go
+++ b/internal/server/server.go
@@ -10,6 +10,8 @@ func main() {
 	srv := newServer()
+	srv.timeout = 30 * time.Second
+	srv.logger = log.Default()
 	srv.run()
@@ -40,7 +42,6 @@ func shutdown() {
 	cancel()
-	time.Sleep(time.Second)
 	wg.Wait()
diff --git a/README.md b/README.md
index aaa..bbb 100644
--- a/README.md
+++ b/README.md
@@ -1,3 +1,4 @@
 # Server
+Now with graceful shutdown.
diff --git a/old.go b/old.go
deleted file mode 100644
index ccc..0000000
--- a/old.go
+++ /dev/null
@@ -1,2 +0,0 @@
-package old
-var gone = true
`

func TestParse_MultiFileDiff(t *testing.T) {
	summary := diff.Parse(sampleDiff)

	require.Len(t, summary.Files, 3)

	server := summary.Files[0]
	assert.Equal(t, "internal/server/server.go", server.Path)
	assert.Equal(t, 2, server.Hunks)
	assert.Equal(t, 2, server.Additions)
	assert.Equal(t, 1, server.Deletions)
	assert.False(t, server.Deleted)

	readme := summary.Files[1]
	assert.Equal(t, "README.md", readme.Path)
	assert.Equal(t, 1, readme.Additions)
	assert.Equal(t, 0, readme.Deletions)

	deleted := summary.Files[2]
	assert.Equal(t, "old.go", deleted.Path)
	assert.True(t, deleted.Deleted)
	assert.Equal(t, 2, deleted.Deletions)
}

func TestParse_Totals(t *testing.T) {
	summary := diff.Parse(sampleDiff)

	assert.Equal(t, 3, summary.TotalAdditions())
	assert.Equal(t, 3, summary.TotalDeletions())
	assert.Equal(t, []string{"internal/server/server.go", "README.md", "old.go"}, summary.Paths())
}

func TestParse_Contains(t *testing.T) {
	summary := diff.Parse(sampleDiff)

	assert.True(t, summary.Contains("README.md"))
	assert.False(t, summary.Contains("missing.go"))
}

func TestParse_EmptyAndMalformed(t *testing.T) {
	assert.Empty(t, diff.Parse("").Files)
	assert.Empty(t, diff.Parse("not a diff at all\njust text\n").Files)

	// Header without hunks still registers the file.
	headerOnly := "diff --git a/x.go b/x.go\nindex 111..222 100644\n--- a/x.go\n+++ b/x.go\n"
	summary := diff.Parse(headerOnly)
	require.Len(t, summary.Files, 1)
	assert.Equal(t, "x.go", summary.Files[0].Path)
	assert.Zero(t, summary.Files[0].Hunks)
}

func TestParse_HeaderLinesNotCountedAsChanges(t *testing.T) {
	// "---" and "+++" prefixes must not be mistaken for deletions/additions.
	summary := diff.Parse(sampleDiff)
	assert.Equal(t, 1, summary.Files[1].Additions)
}
