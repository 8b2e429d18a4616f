package sop

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile defines the block vocabulary of an SOP dialect: which header
// types are free text, which are processes, which one is the version
// history, and how file-list subsections must be named.
type Profile struct {
	Name          string   `yaml:"name"`
	FreeTextKinds []string `yaml:"free_text_kinds"`
	ProcessKinds  []string `yaml:"process_kinds"`
	HistoryKind   string   `yaml:"history_kind"`

	// FileListType is the subsection Type attribute value that triggers
	// file-list naming validation.
	FileListType string `yaml:"file_list_type"`

	// FileListSuffix is the suffix a file-list subsection's name must
	// carry.
	FileListSuffix string `yaml:"file_list_suffix"`
}

// DefaultProfile returns the standard SOP dialect.
func DefaultProfile() *Profile {
	return &Profile{
		Name:           "standard",
		FreeTextKinds:  []string{"Introduction", "Literature"},
		ProcessKinds:   []string{"Analysis", "Quality control"},
		HistoryKind:    "History",
		FileListType:   "file list",
		FileListSuffix: "_files.txt",
	}
}

// LoadProfile reads a dialect profile from a YAML file. Fields missing
// from the file keep their standard-dialect values.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if err := profile.validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return profile, nil
}

func (p *Profile) validate() error {
	if len(p.FreeTextKinds) == 0 && len(p.ProcessKinds) == 0 {
		return fmt.Errorf("profile declares no block kinds")
	}
	if p.HistoryKind == "" {
		return fmt.Errorf("history_kind must not be empty")
	}

	seen := map[string]BlockCategory{p.HistoryKind: CategoryHistory}
	for _, kind := range p.FreeTextKinds {
		if other, ok := seen[kind]; ok {
			return fmt.Errorf("kind %q declared as both %s and %s", kind, other, CategoryFreeText)
		}
		seen[kind] = CategoryFreeText
	}
	for _, kind := range p.ProcessKinds {
		if other, ok := seen[kind]; ok {
			return fmt.Errorf("kind %q declared as both %s and %s", kind, other, CategoryProcess)
		}
		seen[kind] = CategoryProcess
	}
	return nil
}

// category resolves a header type string against the profile's vocabulary.
func (p *Profile) category(kind string) (BlockCategory, bool) {
	for _, k := range p.FreeTextKinds {
		if k == kind {
			return CategoryFreeText, true
		}
	}
	for _, k := range p.ProcessKinds {
		if k == kind {
			return CategoryProcess, true
		}
	}
	if kind == p.HistoryKind {
		return CategoryHistory, true
	}
	return "", false
}
