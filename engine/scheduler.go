package engine

// RunSprints drives one or more independent ProcessingSteps through the
// sprint scheduling loop described in spec §4.8, grounded on step.py's
// ProcessingStep_execute: run every step of the current sprint, collect
// each step's output media file and next-sprint steps, discard the
// previous sprint's output files once a new sprint starts running, and
// repeat until a sprint produces no further steps. Only the last
// non-empty sprint's output files are returned. Passing several initial
// steps (one per independently-processed stream, say) runs them as one
// shared sprint sequence, matching step.py's current_sprint being a set
// that may start with more than one member.
func RunSprints(log Logger, initial ...ProcessingStep) ([]MediaFile, error) {
	if log == nil {
		log = NopLogger{}
	}

	currentSprint := append([]ProcessingStep{}, initial...)
	sprintID := 0
	var outputFiles []MediaFile

	for len(currentSprint) > 0 {
		log.Infof("processing sprint %d", sprintID)

		if len(outputFiles) > 0 {
			log.Infof("discarding output files from previous sprint: %d file(s)", len(outputFiles))
			outputFiles = nil
		}

		var nextSprint []ProcessingStep
		for _, step := range currentSprint {
			if err := step.Run(); err != nil {
				return nil, err
			}
			result, err := step.Result()
			if err != nil {
				return nil, err
			}
			if result.NextSprintSteps != nil {
				nextSprint = append(nextSprint, result.NextSprintSteps...)
			}
			if result.OutputMediaFile != nil {
				outputFiles = append(outputFiles, result.OutputMediaFile)
			}
		}

		currentSprint = nextSprint
		sprintID++
	}

	log.Infof("stream processing finished with %d output file(s)", len(outputFiles))
	return outputFiles, nil
}
