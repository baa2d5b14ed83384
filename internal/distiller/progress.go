package distiller

// ProgressReporter receives callbacks as a run advances. OnFileProcessed is
// called from worker goroutines and must be safe for concurrent use.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called with the number of files found.
	OnDiscoveryComplete(files int)

	// OnFileProcessingStart is called before files are parsed.
	OnFileProcessingStart(totalFiles int)

	// OnFileProcessed is called after each file is processed.
	OnFileProcessed(path string)

	// OnComplete is called when the run finishes.
	OnComplete(stats *RunStats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnDiscoveryStart()                    {}
func (NoOpProgressReporter) OnDiscoveryComplete(files int)        {}
func (NoOpProgressReporter) OnFileProcessingStart(totalFiles int) {}
func (NoOpProgressReporter) OnFileProcessed(path string)          {}
func (NoOpProgressReporter) OnComplete(stats *RunStats)           {}
