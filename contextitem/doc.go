// Package contextitem provides the concrete items an agent can keep open in
// its context: files and folders of a workspace, fetched web pages and
// static text.
//
// Every item renders as
//
//	{description} (source: {source})
//	```
//	{content}
//	```
//
// File and folder items read the file system each time they are rendered, so
// the prompt always shows the current state of the workspace.
package contextitem
