package services

import "errors"

var (
	// ErrNoXMLFiles means the container holds no .xml blobs.
	ErrNoXMLFiles = errors.New("no XML files found in container")
	// ErrNoWorkflowsExtracted means every XML file yielded zero records.
	ErrNoWorkflowsExtracted = errors.New("no workflows extracted from XML files")
)
