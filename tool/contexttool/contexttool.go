// Package contexttool exposes the open context of an agent to the model as
// tools: open_file, open_folder, open_web_page, close_context_item and
// clear_context.
//
// The tools find the context through agentctx.FromAgent on the agent that
// issued the call, so they work with any agent that embeds
// *agentctx.Capability.
package contexttool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/agentctx/agentctx"
	"github.com/hupe1980/agentctx/contextitem"
	"github.com/hupe1980/agentctx/core"
	internalutil "github.com/hupe1980/agentctx/internal/util"
	"github.com/hupe1980/agentctx/tool"
)

// Tool names.
const (
	OpenFileName         = "open_file"
	OpenFolderName       = "open_folder"
	OpenWebPageName      = "open_web_page"
	CloseContextItemName = "close_context_item"
	ClearContextName     = "clear_context"
)

// Options configures the context tools.
type Options struct {
	// Workspace is the root that file and folder paths are resolved against.
	Workspace string
	// Ignore patterns are applied to folder listings.
	Ignore []string
	// Fetch loads a web page; defaults to contextitem.FetchWebPage.
	Fetch func(ctx context.Context, url string) (agentctx.Item, error)
}

// Tools returns all context tools.
func Tools(optFns ...func(o *Options)) []tool.Tool {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Fetch == nil {
		opts.Fetch = func(ctx context.Context, url string) (agentctx.Item, error) {
			return contextitem.FetchWebPage(ctx, url)
		}
	}

	h := &handlers{opts: opts}

	return []tool.Tool{
		tool.NewFunctionToolFromStruct(OpenFileName,
			"Opens a file for editing or continued viewing; creates it if it does not exist yet",
			openFileArgs{}, h.openFile),
		tool.NewFunctionToolFromStruct(OpenFolderName,
			"Open a folder to keep track of its content",
			openFolderArgs{}, h.openFolder),
		tool.NewFunctionToolFromStruct(OpenWebPageName,
			"Open a web page and keep its readable content in the context",
			openWebPageArgs{}, h.openWebPage),
		tool.NewFunctionToolFromStruct(CloseContextItemName,
			"Hide an open file, folder or other context item, to save tokens.",
			closeArgs{}, h.closeItem),
		tool.NewFunctionToolFromStruct(ClearContextName,
			"Close all open context items",
			struct{}{}, h.clear),
	}
}

type openFileArgs struct {
	FilePath string `json:"file_path" description:"The path of the file to open"`
}

type openFolderArgs struct {
	Path string `json:"path" description:"The path of the folder to open"`
}

type openWebPageArgs struct {
	URL string `json:"url" description:"The URL of the web page to open"`
}

type closeArgs struct {
	Number int `json:"number" description:"The 1-based index of the context item to hide"`
}

type handlers struct {
	opts Options
}

func storeFor(tc *core.ToolContext, name string) (*agentctx.Store, error) {
	store, ok := agentctx.FromAgent(tc.Agent())
	if !ok {
		return nil, tool.NewToolError(name, "agent has no context", tool.CodeNoContext)
	}
	return store, nil
}

func (h *handlers) openFile(tc *core.ToolContext, args map[string]any) (any, error) {
	store, err := storeFor(tc, OpenFileName)
	if err != nil {
		return nil, err
	}

	path, _ := internalutil.StringArg(args, "file_path")

	item, err := contextitem.NewFileItem(h.opts.Workspace, path)
	if err != nil {
		return nil, tool.NewToolError(OpenFileName, err.Error(), tool.CodeInvalidArgument)
	}

	if store.Contains(item) {
		return nil, tool.NewToolError(OpenFileName, fmt.Sprintf("The file %s is already open", item.Path), tool.CodeDuplicateOperation)
	}

	abs, _ := contextitem.ResolvePath(h.opts.Workspace, path)

	created := false
	if _, statErr := os.Stat(abs); errors.Is(statErr, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(abs, nil, 0o644); err != nil {
			return nil, err
		}
		created = true
	} else if statErr != nil {
		return nil, statErr
	}

	store.Add(item)

	tc.Logger().Debug("context.item.opened", "kind", "file", "source", item.Path, "created", created)

	if created {
		return fmt.Sprintf("File %s created, has been opened and added to the context", item.Path), nil
	}

	return fmt.Sprintf("File %s has been opened and added to the context", item.Path), nil
}

func (h *handlers) openFolder(tc *core.ToolContext, args map[string]any) (any, error) {
	store, err := storeFor(tc, OpenFolderName)
	if err != nil {
		return nil, err
	}

	path, _ := internalutil.StringArg(args, "path")

	item, err := contextitem.NewFolderItem(h.opts.Workspace, path, h.opts.Ignore...)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, tool.NewToolError(OpenFolderName, fmt.Sprintf("open_folder %s failed: no such folder", path), tool.CodeNotFound)
		}
		return nil, tool.NewToolError(OpenFolderName, err.Error(), tool.CodeInvalidArgument)
	}

	if store.Contains(item) {
		return nil, tool.NewToolError(OpenFolderName, fmt.Sprintf("The folder %s is already open", item.Path), tool.CodeDuplicateOperation)
	}

	store.Add(item)

	tc.Logger().Debug("context.item.opened", "kind", "folder", "source", item.Path)

	return fmt.Sprintf("Folder %s has been opened and added to the context", item.Path), nil
}

func (h *handlers) openWebPage(tc *core.ToolContext, args map[string]any) (any, error) {
	store, err := storeFor(tc, OpenWebPageName)
	if err != nil {
		return nil, err
	}

	url, _ := internalutil.StringArg(args, "url")

	if store.Contains(&contextitem.WebPageItem{URL: url}) {
		return nil, tool.NewToolError(OpenWebPageName, fmt.Sprintf("The web page %s is already open", url), tool.CodeDuplicateOperation)
	}

	item, err := h.opts.Fetch(tc.Context(), url)
	if err != nil {
		return nil, err
	}

	store.Add(item)

	tc.Logger().Debug("context.item.opened", "kind", "web_page", "source", url)

	return fmt.Sprintf("Web page %s has been opened and added to the context", url), nil
}

func (h *handlers) closeItem(tc *core.ToolContext, args map[string]any) (any, error) {
	store, err := storeFor(tc, CloseContextItemName)
	if err != nil {
		return nil, err
	}

	number, ok := internalutil.IntArg(args, "number")
	if !ok {
		return nil, tool.NewToolError(CloseContextItemName, "number must be an integer", tool.CodeInvalidArgument)
	}

	if err := store.Close(number); err != nil {
		if errors.Is(err, agentctx.ErrOutOfRange) {
			return nil, tool.NewToolError(CloseContextItemName, fmt.Sprintf("Invalid item number: %d", number), tool.CodeInvalidArgument)
		}
		return nil, err
	}

	tc.Logger().Debug("context.item.closed", "number", number, "remaining", store.Len())

	return fmt.Sprintf("Context item %d closed", number), nil
}

func (h *handlers) clear(tc *core.ToolContext, _ map[string]any) (any, error) {
	store, err := storeFor(tc, ClearContextName)
	if err != nil {
		return nil, err
	}

	store.Clear()

	tc.Logger().Debug("context.cleared")

	return "Context cleared", nil
}
