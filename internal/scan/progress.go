package scan

// Snapshot is a point-in-time view of the coordinator's counters. The CLI
// progress layer polls it; correctness never depends on it.
type Snapshot struct {
	Status      Status
	FilesSeen   int64
	FilesHashed int64
	BytesHashed int64
	ErrorCount  int64
	GroupsFound int64
}

// Snapshot returns the current counters. Safe to call from any goroutine
// while a scan runs.
func (c *Coordinator) Snapshot() Snapshot {
	return Snapshot{
		Status:      c.currentStatus(),
		FilesSeen:   c.filesSeen.Load(),
		FilesHashed: c.filesHashed.Load(),
		BytesHashed: c.bytesHashed.Load(),
		ErrorCount:  c.errorCount.Load(),
		GroupsFound: c.groupsFound.Load(),
	}
}
