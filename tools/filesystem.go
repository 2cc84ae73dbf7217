// Filesystem Tools - the agent's create, read, list, mkdir, and edit operations.
//
// Information Hiding:
// - File I/O implementation details hidden
// - Path validation and sandboxing delegated to Workspace
// - Error handling for file operations abstracted
//
// Every handler returns failures as ToolResult values so the model can see
// them and correct its arguments on the next round; handlers never panic
// and never surface Go errors to the loop.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CreateFileTool writes a new file (or overwrites an existing one),
// creating parent directories as needed.
type CreateFileTool struct {
	BaseTool
	ws *Workspace
}

// NewCreateFileTool creates a create file tool bound to a workspace.
func NewCreateFileTool(ws *Workspace) *CreateFileTool {
	return &CreateFileTool{ws: ws}
}

// Metadata returns the tool metadata.
func (t *CreateFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "create_file",
		Description: "Create a new file with the given content, overwriting it if it already exists. The path is relative to the workspace.",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Relative path of the file, e.g. src/main/Hello.java", Required: true},
			{Name: "content", ParamType: "string", Description: "Full content to write to the file", Required: true},
		},
	}
}

type createFileArgs struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Validate validates the arguments.
func (t *CreateFileTool) Validate(args json.RawMessage) error {
	var a createFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

// Execute writes the file.
func (t *CreateFileTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a createFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}

	fullPath, err := t.ws.Resolve(a.Path)
	if err != nil {
		return FailureResult(err), nil
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return FailureResult(fmt.Errorf("failed to create parent directory: %w", err)), nil
	}

	if err := atomicWriteFile(fullPath, []byte(a.Content)); err != nil {
		return FailureResult(fmt.Errorf("failed to write file: %w", err)), nil
	}

	return SuccessResult(fmt.Sprintf("Created file: %s (%d bytes)", fullPath, len(a.Content))), nil
}

// ReadFileTool reads file contents.
type ReadFileTool struct {
	BaseTool
	ws *Workspace
}

// NewReadFileTool creates a read file tool bound to a workspace.
func NewReadFileTool(ws *Workspace) *ReadFileTool {
	return &ReadFileTool{ws: ws}
}

// Metadata returns the tool metadata.
func (t *ReadFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "read_file",
		Description: "Read the full content of an existing file. The path is relative to the workspace.",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Relative path of the file to read", Required: true},
		},
	}
}

type readFileArgs struct {
	Path string `json:"path"`
}

// Validate validates the arguments.
func (t *ReadFileTool) Validate(args json.RawMessage) error {
	var a readFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

// Execute reads the file.
func (t *ReadFileTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a readFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}

	fullPath, err := t.ws.Resolve(a.Path)
	if err != nil {
		return FailureResult(err), nil
	}

	content, err := os.ReadFile(fullPath)
	if os.IsNotExist(err) {
		return FailureResultf("file does not exist: %s", a.Path), nil
	}
	if err != nil {
		return FailureResult(fmt.Errorf("failed to read file: %w", err)), nil
	}

	return SuccessResult(string(content)), nil
}

// ListDirectoryTool lists the files and subdirectories of a directory.
type ListDirectoryTool struct {
	BaseTool
	ws *Workspace
}

// NewListDirectoryTool creates a list directory tool bound to a workspace.
func NewListDirectoryTool(ws *Workspace) *ListDirectoryTool {
	return &ListDirectoryTool{ws: ws}
}

// Metadata returns the tool metadata.
func (t *ListDirectoryTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "list_directory",
		Description: "List all files and subdirectories of a directory. The path is relative to the workspace; use '.' for the workspace root.",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Relative path of the directory, '.' for the root", Required: true},
		},
	}
}

type listDirectoryArgs struct {
	Path string `json:"path"`
}

// Validate validates the arguments.
func (t *ListDirectoryTool) Validate(args json.RawMessage) error {
	var a listDirectoryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

// Execute lists the directory. Entries are sorted by name so the listing
// is deterministic; directories carry a trailing slash.
func (t *ListDirectoryTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a listDirectoryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}

	fullPath, err := t.ws.Resolve(a.Path)
	if err != nil {
		return FailureResult(err), nil
	}

	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return FailureResultf("directory does not exist: %s", a.Path), nil
	}
	if err != nil {
		return FailureResult(fmt.Errorf("failed to stat directory: %w", err)), nil
	}
	if !info.IsDir() {
		return FailureResultf("path is not a directory: %s", a.Path), nil
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return FailureResult(fmt.Errorf("failed to list directory: %w", err)), nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var sb strings.Builder
	fmt.Fprintf(&sb, "Directory [%s]:\n", a.Path)
	for _, entry := range entries {
		if entry.IsDir() {
			fmt.Fprintf(&sb, "  [DIR] %s/\n", entry.Name())
		} else {
			fmt.Fprintf(&sb, "  [FILE] %s\n", entry.Name())
		}
	}

	return SuccessResult(sb.String()), nil
}

// CreateDirectoryTool creates a directory recursively.
type CreateDirectoryTool struct {
	BaseTool
	ws *Workspace
}

// NewCreateDirectoryTool creates a create directory tool bound to a workspace.
func NewCreateDirectoryTool(ws *Workspace) *CreateDirectoryTool {
	return &CreateDirectoryTool{ws: ws}
}

// Metadata returns the tool metadata.
func (t *CreateDirectoryTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "create_directory",
		Description: "Create a new directory, including missing parents. Succeeds if the directory already exists. The path is relative to the workspace.",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Relative path of the directory to create", Required: true},
		},
	}
}

type createDirectoryArgs struct {
	Path string `json:"path"`
}

// Validate validates the arguments.
func (t *CreateDirectoryTool) Validate(args json.RawMessage) error {
	var a createDirectoryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

// Execute creates the directory.
func (t *CreateDirectoryTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a createDirectoryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}

	fullPath, err := t.ws.Resolve(a.Path)
	if err != nil {
		return FailureResult(err), nil
	}

	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return FailureResult(fmt.Errorf("failed to create directory: %w", err)), nil
	}

	return SuccessResult(fmt.Sprintf("Created directory: %s", fullPath)), nil
}

// EditFileTool performs an exact-match search/replace on a file. The search
// string must occur exactly once; requiring uniqueness prevents edits
// landing at the wrong location when the target text is not unique.
type EditFileTool struct {
	BaseTool
	ws *Workspace
}

// NewEditFileTool creates an edit file tool bound to a workspace.
func NewEditFileTool(ws *Workspace) *EditFileTool {
	return &EditFileTool{ws: ws}
}

// Metadata returns the tool metadata.
func (t *EditFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name: "edit_file",
		Description: "Edit an existing file by replacing old_content with new_content. " +
			"old_content must match the file exactly (whitespace, newlines, indentation) and must occur exactly once; " +
			"if it occurs multiple times the edit is rejected and you must include more surrounding context. " +
			"Pass an empty new_content to delete the matched text. Use edit_file_all to replace every occurrence.",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Relative path of the file to edit", Required: true},
			{Name: "old_content", ParamType: "string", Description: "Exact content to replace; must be unique in the file", Required: true},
			{Name: "new_content", ParamType: "string", Description: "Replacement content; empty string deletes the match", Required: true},
		},
	}
}

type editFileArgs struct {
	Path       string `json:"path"`
	OldContent string `json:"old_content"`
	NewContent string `json:"new_content"`
}

// Validate validates the arguments.
func (t *EditFileTool) Validate(args json.RawMessage) error {
	var a editFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if a.OldContent == "" {
		return fmt.Errorf("old_content cannot be empty")
	}
	return nil
}

// Execute performs the edit.
func (t *EditFileTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a editFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}

	if a.OldContent == "" {
		return FailureResultf("old_content cannot be empty; specify the exact content to replace"), nil
	}

	fullPath, err := t.ws.Resolve(a.Path)
	if err != nil {
		return FailureResult(err), nil
	}

	content, err := os.ReadFile(fullPath)
	if os.IsNotExist(err) {
		return FailureResultf("file does not exist: %s. Create it with create_file or check the path.", a.Path), nil
	}
	if err != nil {
		return FailureResult(fmt.Errorf("failed to read file: %w", err)), nil
	}

	current := string(content)
	occurrences := strings.Count(current, a.OldContent)

	if occurrences == 0 {
		return FailureResultf("old_content not found in %s. "+
			"The content must match exactly (whitespace, newlines, indentation); "+
			"re-read the file with read_file and retry with the exact current content.", a.Path), nil
	}
	if occurrences > 1 {
		return FailureResultf("old_content occurs %d times in %s; it must be unique. "+
			"Include more surrounding context to pin down a single location, "+
			"or use edit_file_all to replace every occurrence.", occurrences, a.Path), nil
	}

	updated := strings.Replace(current, a.OldContent, a.NewContent, 1)
	if err := atomicWriteFile(fullPath, []byte(updated)); err != nil {
		return FailureResult(fmt.Errorf("failed to write file: %w", err)), nil
	}

	return SuccessResult(fmt.Sprintf("Edited %s: replaced %d chars with %d chars (%+d bytes)",
		fullPath, len(a.OldContent), len(a.NewContent), len(updated)-len(current))), nil
}

// EditFileAllTool replaces every occurrence of a search string in a file.
// Unlike edit_file it skips the uniqueness check; intended for bulk renames
// and refactors.
type EditFileAllTool struct {
	BaseTool
	ws *Workspace
}

// NewEditFileAllTool creates an edit-all tool bound to a workspace.
func NewEditFileAllTool(ws *Workspace) *EditFileAllTool {
	return &EditFileAllTool{ws: ws}
}

// Metadata returns the tool metadata.
func (t *EditFileAllTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name: "edit_file_all",
		Description: "Edit an existing file by replacing every occurrence of old_content with new_content. " +
			"Like edit_file but without the uniqueness requirement; suited for bulk replacements such as renaming a variable or updating imports.",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Relative path of the file to edit", Required: true},
			{Name: "old_content", ParamType: "string", Description: "Exact content to replace everywhere", Required: true},
			{Name: "new_content", ParamType: "string", Description: "Replacement content", Required: true},
		},
	}
}

// Validate validates the arguments.
func (t *EditFileAllTool) Validate(args json.RawMessage) error {
	var a editFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if a.OldContent == "" {
		return fmt.Errorf("old_content cannot be empty")
	}
	return nil
}

// Execute replaces all occurrences.
func (t *EditFileAllTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a editFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}

	if a.OldContent == "" {
		return FailureResultf("old_content cannot be empty; specify the exact content to replace"), nil
	}

	fullPath, err := t.ws.Resolve(a.Path)
	if err != nil {
		return FailureResult(err), nil
	}

	content, err := os.ReadFile(fullPath)
	if os.IsNotExist(err) {
		return FailureResultf("file does not exist: %s", a.Path), nil
	}
	if err != nil {
		return FailureResult(fmt.Errorf("failed to read file: %w", err)), nil
	}

	current := string(content)
	occurrences := strings.Count(current, a.OldContent)
	if occurrences == 0 {
		return FailureResultf("old_content not found in %s; re-read the file with read_file to confirm its content.", a.Path), nil
	}

	updated := strings.ReplaceAll(current, a.OldContent, a.NewContent)
	if err := atomicWriteFile(fullPath, []byte(updated)); err != nil {
		return FailureResult(fmt.Errorf("failed to write file: %w", err)), nil
	}

	return SuccessResult(fmt.Sprintf("Edited %s: replaced %d occurrence(s)", fullPath, occurrences)), nil
}

// atomicWriteFile writes data to a temp file in the target directory and
// renames it over the destination, so readers never observe a partial write.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
