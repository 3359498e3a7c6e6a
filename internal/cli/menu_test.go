package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/edgevec/internal/pipeline"
)

type fakeRunner struct {
	testCalls    []pipeline.TestPaths
	convertCalls []string
	err          error
}

func (f *fakeRunner) Test(paths pipeline.TestPaths) (*pipeline.Result, error) {
	f.testCalls = append(f.testCalls, paths)
	return &pipeline.Result{}, f.err
}

func (f *fakeRunner) Convert(input string) (string, *pipeline.Result, error) {
	f.convertCalls = append(f.convertCalls, input)
	return pipeline.VectorPath(input), &pipeline.Result{}, f.err
}

func runMenu(t *testing.T, runner Runner, input string) (stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	paths := pipeline.TestPaths{Input: "test_input.png"}
	m := NewMenu(runner, paths, strings.NewReader(input), &out, &errOut)
	require.NoError(t, m.Run())
	return out.String(), errOut.String()
}

func TestMenu_Quit(t *testing.T) {
	for _, choice := range []string{"3", "q", "quit", "  3  "} {
		runner := &fakeRunner{}
		out, _ := runMenu(t, runner, choice+"\n1\n")

		assert.Contains(t, out, "Menu Options:")
		assert.Contains(t, out, "Enter your choice (1-3): ")
		assert.True(t, strings.HasSuffix(out, "Byeee...\n"), "choice %q", choice)
		assert.Empty(t, runner.testCalls, "input after quit must not run")
	}
}

func TestMenu_Test(t *testing.T) {
	for _, choice := range []string{"1", "t"} {
		runner := &fakeRunner{}
		out, _ := runMenu(t, runner, choice+"\n3\n")

		require.Len(t, runner.testCalls, 1)
		assert.Equal(t, "test_input.png", runner.testCalls[0].Input)
		assert.Contains(t, out, "Image processed successfully.")
	}
}

func TestMenu_Convert(t *testing.T) {
	runner := &fakeRunner{}
	out, _ := runMenu(t, runner, "2\n  /pics/cat.jpg  \n3\n")

	assert.Equal(t, []string{"/pics/cat.jpg"}, runner.convertCalls)
	assert.Contains(t, out, "Enter the path of the image to process:")
	assert.Contains(t, out, `Vector image saved as: "/pics/cat_edge.svg"`)
}

func TestMenu_FailureContinues(t *testing.T) {
	runner := &fakeRunner{err: errors.New("boom")}
	out, errOut := runMenu(t, runner, "1\n2\nx.png\n3\n")

	assert.Len(t, runner.testCalls, 1)
	assert.Len(t, runner.convertCalls, 1)
	assert.Equal(t, 2, strings.Count(errOut, "Failed to process image: boom"))
	assert.NotContains(t, out, "Image processed successfully.")
	assert.True(t, strings.HasSuffix(out, "Byeee...\n"))
}

func TestMenu_InvalidChoice(t *testing.T) {
	runner := &fakeRunner{}
	out, _ := runMenu(t, runner, "9\n\nhello\n3\n")

	assert.Equal(t, 3, strings.Count(out, "Invalid choice, please select 1, 2, or 3."))
	assert.Equal(t, 4, strings.Count(out, "Menu Options:"))
}

func TestMenu_EndOfInput(t *testing.T) {
	runner := &fakeRunner{}
	out, _ := runMenu(t, runner, "1\n")

	assert.Len(t, runner.testCalls, 1)
	assert.NotContains(t, out, "Byeee...")

	// EOF while waiting for the convert path
	runner = &fakeRunner{}
	runMenu(t, runner, "2\n")
	assert.Empty(t, runner.convertCalls)
}
