// Package shared holds the repository domain types and the hosting capability
// interfaces consumed by the actions, workflow, and organize packages.
package shared
