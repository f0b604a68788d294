package project

import "errors"

var (
	// ErrDestinationExists indicates the project directory already exists and
	// Overwrite was not set.
	ErrDestinationExists = errors.New("destination already exists")
	// ErrInvalidPipelineName indicates a name that cannot be a directory or
	// wrapper file name.
	ErrInvalidPipelineName = errors.New("invalid pipeline name")
	// ErrNoManifest indicates a directory without makesnake.toml.
	ErrNoManifest = errors.New("not a makesnake project")
)
