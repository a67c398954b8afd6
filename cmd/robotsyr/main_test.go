package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aabizri/robotsyr"
	"github.com/aabizri/robotsyr/interchange/phenotype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDocuments(t *testing.T, r io.Reader) []*phenotype.Document {
	t.Helper()

	dec, err := phenotype.NewDecoder(r)
	require.NoError(t, err)
	defer dec.Close()

	var docs []*phenotype.Document
	for {
		doc, err := dec.Decode()
		if err == io.EOF {
			return docs
		}
		require.NoError(t, err)
		docs = append(docs, doc)
	}
}

func TestListen(t *testing.T) {
	for _, workers := range []int{1, 2, 8} {
		f, err := os.Open("testdata/stream.genotype.yml")
		require.NoError(t, err)

		var out, logs bytes.Buffer
		err = execute(&out, f, &logs, options{workers: workers})
		f.Close()

		// The broken document is reported, the others are written in order.
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 5 documents failed")
		assert.Contains(t, logs.String(), "name=broken")

		docs := readDocuments(t, &out)
		require.Len(t, docs, 4, "workers=%d", workers)
		names := []string{docs[0].Name, docs[1].Name, docs[2].Name, docs[3].Name}
		assert.Equal(t, []string{"stick", "arm", "spider", "tail"}, names, "workers=%d", workers)

		assert.Len(t, docs[0].Blueprint.Modules, 1)
		assert.InDelta(t, 0.5, docs[0].Bounds.HalfExtents().X, 1e-9)

		arm := docs[1].Blueprint
		require.Len(t, arm.Joints, 2)
		assert.Equal(t, robotsyr.JointHinge, arm.Joints[0].Kind)
		assert.Equal(t, 50.0, arm.Joints[0].Limits.Effort)
		assert.InDelta(t, 0.6, arm.Modules[2].Shape.Length, 1e-9)
		assert.Len(t, arm.Modules[2].Sensors, 1)

		assert.Len(t, docs[2].Blueprint.Joints, 3)
		assert.Len(t, docs[2].Blueprint.Children(0), 3)
		assert.Equal(t, robotsyr.MaterialID(4), docs[3].Blueprint.Modules[2].Material)
	}
}

func TestListen_NonFiniteParameter(t *testing.T) {
	stream := "name: first\nsequence:\n  - sym: B\n" +
		"---\nname: infinite\nsequence:\n  - sym: B\n    params: [\"1 / 0\"]\n" +
		"---\nname: last\nsequence:\n  - sym: B\n"

	for _, workers := range []int{1, 3} {
		var out, logs bytes.Buffer
		err := execute(&out, strings.NewReader(stream), &logs, options{workers: workers})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 3 documents failed")
		assert.Contains(t, logs.String(), "name=infinite")

		docs := readDocuments(t, &out)
		require.Len(t, docs, 2, "workers=%d", workers)
		assert.Equal(t, "first", docs[0].Name)
		assert.Equal(t, "last", docs[1].Name)
	}
}

func TestListen_TrailingSeparator(t *testing.T) {
	stream := "name: a\nsequence:\n  - sym: B\n---\n"

	var out bytes.Buffer
	require.NoError(t, execute(&out, strings.NewReader(stream), io.Discard, options{workers: 2}))
	docs := readDocuments(t, &out)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].Name)
}

func TestExecute_Rotation(t *testing.T) {
	doc := "name: stick\nsequence:\n  - sym: B\n    params: [1, 0.1, 0.1]\n"

	var out bytes.Buffer
	err := execute(&out, strings.NewReader(doc), io.Discard, options{workers: 1, yaw: 90})
	require.NoError(t, err)

	docs := readDocuments(t, &out)
	require.Len(t, docs, 1)
	half := docs[0].Bounds.HalfExtents()
	assert.InDelta(t, 0.05, half.X, 1e-9)
	assert.InDelta(t, 0.5, half.Y, 1e-9)
}

func TestExecute_StickyAndConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("default_length: 2\n"), 0o644))
	doc := "sequence:\n  - sym: B\n  - sym: Jb\n  - sym: B\n  - sym: B\n"

	var out bytes.Buffer
	err := execute(&out, strings.NewReader(doc), io.Discard, options{workers: 2, configPath: path, sticky: true})
	require.NoError(t, err)

	docs := readDocuments(t, &out)
	require.Len(t, docs, 1)
	bp := docs[0].Blueprint
	assert.Equal(t, 2.0, bp.Modules[0].Shape.Length)
	require.Len(t, bp.Joints, 2)
	assert.Equal(t, robotsyr.JointBall, bp.Joints[1].Kind)
}

func TestExecute_Errors(t *testing.T) {
	err := execute(io.Discard, strings.NewReader("sequence: 3\n"), io.Discard, options{workers: 1})
	assert.Error(t, err)

	err = execute(io.Discard, strings.NewReader(""), io.Discard, options{configPath: "does-not-exist.yml"})
	assert.Error(t, err)
}

func TestRootCmd(t *testing.T) {
	var out, logs bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--zstd", "--workers", "3", "testdata/stream.genotype.yml"})
	cmd.SetOut(&out)
	cmd.SetErr(&logs)

	require.Error(t, cmd.Execute())
	docs := readDocuments(t, &out)
	assert.Len(t, docs, 4)
}

func TestResolve_Order(t *testing.T) {
	queues := make([]chan *order, 3)
	readOnly := make([]<-chan *order, 3)
	for i := range queues {
		queues[i] = make(chan *order, 10)
		readOnly[i] = queues[i]
	}

	// Worker i emitted sequence numbers i, i+3, i+6, ...
	for seq := 0; seq < 9; seq++ {
		queues[seq%3] <- &order{seq: seq}
	}
	for _, q := range queues {
		close(q)
	}

	out := make(chan *order, 10)
	resolve(readOnly, out)

	var got []int
	for o := range out {
		got = append(got, o.seq)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, got)
}

func BenchmarkPipeline(b *testing.B) {
	raw, err := os.ReadFile("testdata/stream.genotype.yml")
	if err != nil {
		b.Fatalf("Couldn't open test data file: %v", err)
	}

	for n := 0; n < b.N; n++ {
		_ = execute(io.Discard, bytes.NewReader(raw), io.Discard, options{workers: 4})
	}
}
