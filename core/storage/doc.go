// Package storage confines every file operation to a single root directory.
//
// Resolve is the only way a caller-supplied relative path becomes an absolute
// filesystem path. It joins the path onto the canonical root, cleans it,
// follows symlinks of the longest existing ancestor and rejects anything that
// does not land on the root or beneath it with ErrInvalidPath. Every
// operation on Local goes through it.
//
// Writes are atomic: SaveFile streams into a temporary file next to the
// destination and renames it into place, so readers see either the previous
// file or the complete new one.
//
//	store, err := storage.NewLocal("/data", storage.WithLogger(log))
//	rel, err := store.SaveFile(ctx, "img", "logo.png", r)
//	dirs, files, err := store.List("img")
package storage
