package main

import "github.com/textbeads/textbeads/internal/storage"

// openStore resolves the store directory (via --store / env vars /
// upward walk) and opens it, exiting the process on failure the way
// every other command boundary does.
func openStore() *storage.Store {
	dir, err := resolveStore()
	if err != nil {
		fail(err)
	}
	store, err := storage.Open(dir)
	if err != nil {
		fail(err)
	}
	return store
}
