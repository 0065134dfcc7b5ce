// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML configuration at ~/.scribe/config.toml, with an
//     fsnotify watch that reloads the file when it changes on disk
//   - PromptStore: user-editable LLM prompts under ~/.scribe/prompts
package file
