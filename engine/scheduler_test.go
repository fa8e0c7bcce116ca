package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRunSprintsDiscardsIntermediates exercises S6: a step whose result
// carries both an output media file and a next-sprint step must have that
// intermediate output discarded; only the final sprint's output surfaces.
func TestRunSprintsDiscardsIntermediates(t *testing.T) {
	finalFile := &fakeMediaFile{path: "final.mp4"}
	intermediateFile := &fakeMediaFile{path: "intermediate.mp4"}

	second := &fakeStep{stepBase: stepBase{kind: "second"}}
	second.runFn = func(s *fakeStep) error {
		s.setResult(StepResult{OutputMediaFile: finalFile})
		return nil
	}

	first := &fakeStep{stepBase: stepBase{kind: "first"}}
	first.runFn = func(s *fakeStep) error {
		s.setResult(StepResult{
			OutputMediaFile: intermediateFile,
			NextSprintSteps: []ProcessingStep{second},
		})
		return nil
	}

	outputs, err := RunSprints(nil, first)
	assert.NoError(t, err)
	assert.Len(t, outputs, 1)
	assert.Equal(t, "final.mp4", outputs[0].Path())
}

// TestRunSprintsTwoPassSpawnsExactlyOneChild exercises S5's shape using the
// generic fakeStep double: a first-pass step that spawns one child, whose
// own run produces only an output file and no further children.
func TestRunSprintsTwoPassSpawnsExactlyOneChild(t *testing.T) {
	childRuns := 0
	var child *fakeStep
	child = &fakeStep{stepBase: stepBase{kind: "pass2"}}
	child.runFn = func(s *fakeStep) error {
		childRuns++
		s.setResult(StepResult{OutputMediaFile: &fakeMediaFile{path: "pass2.mp4"}})
		return nil
	}

	spawnedChildren := 0
	first := &fakeStep{stepBase: stepBase{kind: "pass1"}}
	first.runFn = func(s *fakeStep) error {
		spawnedChildren++
		s.setResult(StepResult{NextSprintSteps: []ProcessingStep{child}})
		return nil
	}

	outputs, err := RunSprints(nil, first)
	assert.NoError(t, err)
	assert.Equal(t, 1, childRuns)
	assert.Equal(t, 1, spawnedChildren)
	assert.Len(t, outputs, 1)
	assert.Equal(t, "pass2.mp4", outputs[0].Path())
}

func TestProcessingStepResultNotReadyBeforeRun(t *testing.T) {
	s := &fakeStep{stepBase: stepBase{kind: "unrun"}}
	_, err := s.Result()
	assert.Error(t, err)
	assert.IsType(t, &ResultNotReadyError{}, err)
}

func TestRunSprintsRunsIndependentInitialStepsTogether(t *testing.T) {
	a := &fakeStep{stepBase: stepBase{kind: "a"}}
	a.runFn = func(s *fakeStep) error {
		s.setResult(StepResult{OutputMediaFile: &fakeMediaFile{path: "a.mp4"}})
		return nil
	}
	b := &fakeStep{stepBase: stepBase{kind: "b"}}
	b.runFn = func(s *fakeStep) error {
		s.setResult(StepResult{OutputMediaFile: &fakeMediaFile{path: "b.mp4"}})
		return nil
	}

	outputs, err := RunSprints(nil, a, b)
	assert.NoError(t, err)
	assert.Len(t, outputs, 2)
}
