package gen

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotFile is the name of the snapshot stored in the target directory.
const SnapshotFile = ".booltime.snapshot"

// SnapshotVersion changes whenever the generated code changes shape.
const SnapshotVersion = 1

// Snapshot records the graph a target was generated from.
type Snapshot struct {
	Version int            `msgpack:"version"`
	Package string         `msgpack:"package"`
	Header  string         `msgpack:"header,omitempty"`
	Types   []SnapshotType `msgpack:"types"`
}

// SnapshotType is the snapshot of one type.
type SnapshotType struct {
	Name   string          `msgpack:"name"`
	Table  string          `msgpack:"table"`
	File   string          `msgpack:"file"`
	Fields []SnapshotField `msgpack:"fields"`
}

// SnapshotField is the snapshot of one declaration.
type SnapshotField struct {
	Active    string `msgpack:"active"`
	Passive   string `msgpack:"passive"`
	Explicit  bool   `msgpack:"explicit,omitempty"`
	Attribute string `msgpack:"attribute"`
	Nullable  string `msgpack:"nullable"`
	GoField   string `msgpack:"go_field"`
}

// Snapshot returns the snapshot of g.
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{
		Version: SnapshotVersion,
		Package: g.Package,
		Header:  g.Header,
		Types:   make([]SnapshotType, 0, len(g.Nodes)),
	}
	for _, t := range g.Nodes {
		st := SnapshotType{Name: t.Name, Table: t.Table, File: t.File}
		for _, f := range t.Fields {
			st.Fields = append(st.Fields, SnapshotField{
				Active:    f.Decl.Active(),
				Passive:   f.Decl.Passive(),
				Explicit:  f.Explicit != "",
				Attribute: f.Decl.Attribute(),
				Nullable:  f.Nullable,
				GoField:   f.GoField,
			})
		}
		s.Types = append(s.Types, st)
	}
	return s
}

// Encode returns the msgpack encoding of s.
func (s *Snapshot) Encode() ([]byte, error) {
	return msgpack.Marshal(s)
}

// Files returns the generated file names recorded in s.
func (s *Snapshot) Files() []string {
	files := make([]string, len(s.Types))
	for i, t := range s.Types {
		files[i] = t.File
	}
	return files
}

// ReadSnapshot reads the snapshot stored in dir. A missing snapshot
// returns nil and no error.
func ReadSnapshot(dir string) (*Snapshot, []byte, error) {
	data, err := os.ReadFile(filepath.Join(dir, SnapshotFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, NewGenerationError("snapshot", SnapshotFile, "read", err)
	}
	s := &Snapshot{}
	if err := msgpack.Unmarshal(data, s); err != nil {
		return nil, nil, NewGenerationError("snapshot", SnapshotFile, "decode", err)
	}
	return s, data, nil
}

func writeSnapshot(dir string, data []byte) error {
	if err := os.WriteFile(filepath.Join(dir, SnapshotFile), data, 0o644); err != nil {
		return NewGenerationError("snapshot", SnapshotFile, "write", err)
	}
	return nil
}
