package main

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
	Error   string `json:"error,omitempty"`
}

// CLIEntry is a JSON-friendly stub index entry.
type CLIEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Path    string `json:"path"`
}

// CLIDecl is a JSON-friendly stub declaration.
type CLIDecl struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Aliased bool   `json:"aliased,omitempty"`
	Parent  string `json:"parent,omitempty"`
}

// CLIDir is a JSON-friendly locator directory.
type CLIDir struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}
