package forge

import "encoding/json"

// Artifact is a Foundry build artifact as written to out/<Source>.sol/<Contract>.json
type Artifact struct {
	ABI              json.RawMessage  `json:"abi"`
	Bytecode         BytecodeObject   `json:"bytecode"`
	DeployedBytecode BytecodeObject   `json:"deployedBytecode"`
	Metadata         ArtifactMetadata `json:"metadata"`
}

// BytecodeObject holds hex encoded bytecode
type BytecodeObject struct {
	Object string `json:"object"`
}

// ArtifactMetadata is the part of the solc metadata we read
type ArtifactMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// HasBytecode reports whether the artifact is deployable
func (a *Artifact) HasBytecode() bool {
	return a.Bytecode.Object != "" && a.Bytecode.Object != "0x"
}

// Target returns the source path and contract name of the compilation target
func (a *Artifact) Target() (source, contract string) {
	for s, c := range a.Metadata.Settings.CompilationTarget {
		return s, c
	}
	return "", ""
}
