// Package githubauth resolves the GitHub token used by the REST backend.
package githubauth
