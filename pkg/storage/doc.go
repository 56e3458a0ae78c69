// Package storage creates the directories the databases and media store
// persist into. It never deletes or modifies what is already there.
package storage
