// Package json persists documents as versioned JSON envelopes. The segment
// and dependency shape written here is the only representation that crosses
// the core/storage boundary.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmalek/loom"
)

// envelope is the v1 wire format for a persisted document.
type envelope struct {
	Version      int               `json:"version"`
	ID           string            `json:"id"`
	Title        string            `json:"title,omitempty"`
	Prompt       string            `json:"prompt"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Segments     []segmentDTO      `json:"segments"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// segmentDTO is the JSON representation of a Segment with a kind discriminator.
type segmentDTO struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// MarshalDocument serializes a Document to JSON in v1 envelope format.
func MarshalDocument(d loom.Document) ([]byte, error) {
	env := envelope{
		Version:   1,
		ID:        d.ID,
		Title:     d.Title,
		Prompt:    d.Prompt,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Segments:  make([]segmentDTO, len(d.Response.Segments)),
	}
	for i, seg := range d.Response.Segments {
		dto, err := marshalSegment(seg)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		env.Segments[i] = dto
	}
	if len(d.Response.Dependencies) > 0 {
		env.Dependencies = d.Response.Dependencies
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalDocument deserializes a Document from JSON in v1 envelope format.
func UnmarshalDocument(data []byte) (loom.Document, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return loom.Document{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return loom.Document{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	segs := make(loom.Segments, 0, len(env.Segments))
	for i, dto := range env.Segments {
		seg, err := unmarshalSegment(dto)
		if err != nil {
			return loom.Document{}, fmt.Errorf("segment %d: %w", i, err)
		}
		segs = append(segs, seg)
	}
	var deps loom.Manifest
	if len(env.Dependencies) > 0 {
		deps = loom.Manifest(env.Dependencies)
	}
	return loom.Document{
		ID:        env.ID,
		Title:     env.Title,
		Prompt:    env.Prompt,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
		Response: loom.Response{
			Segments:     segs,
			Dependencies: deps,
		},
	}, nil
}

// Save writes a Document to a JSON file, creating parent directories as needed.
func Save(path string, d loom.Document) error {
	data, err := MarshalDocument(d)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Document from a JSON file.
func Load(path string) (loom.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return loom.Document{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalDocument(data)
}

func marshalSegment(seg loom.Segment) (segmentDTO, error) {
	switch seg.Kind {
	case loom.SegmentProse, loom.SegmentCode:
		return segmentDTO{Kind: seg.Kind.String(), Content: seg.Content}, nil
	default:
		return segmentDTO{}, fmt.Errorf("unknown segment kind: %d", seg.Kind)
	}
}

func unmarshalSegment(dto segmentDTO) (loom.Segment, error) {
	switch dto.Kind {
	case "prose":
		return loom.Segment{Kind: loom.SegmentProse, Content: dto.Content}, nil
	case "code":
		return loom.Segment{Kind: loom.SegmentCode, Content: dto.Content}, nil
	default:
		return loom.Segment{}, fmt.Errorf("unknown segment kind: %q", dto.Kind)
	}
}
