package tools

import (
	"context"

	"github.com/Azure/msgraph-snippets/internal/snippets"
)

// SnippetRunner runs one operation and waits for its outcome.
// *snippets.Dispatcher satisfies it.
type SnippetRunner interface {
	RunAndWait(ctx context.Context, op snippets.Operation) snippets.Result
}

// SnippetRunnerFunc lets a plain function serve as a SnippetRunner.
type SnippetRunnerFunc func(ctx context.Context, op snippets.Operation) snippets.Result

var _ SnippetRunner = SnippetRunnerFunc(nil)

// RunAndWait implements SnippetRunner.
func (f SnippetRunnerFunc) RunAndWait(ctx context.Context, op snippets.Operation) snippets.Result {
	return f(ctx, op)
}
