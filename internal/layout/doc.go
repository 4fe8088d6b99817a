// Package layout resolves the on-disk layout of an isolated Python
// environment from its root path.
//
// Resolution is purely lexical: no filesystem access happens here, so a
// layout can be computed for an environment that does not exist yet.
// Existence is the lifecycle package's concern.
//
// Two platform families are supported, differing in subdirectory names
// and interpreter filename:
//
//	POSIX:    <root>/bin/python         <root>/lib/python*/site-packages
//	Windows:  <root>\Scripts\python.exe <root>\Lib\site-packages
//
// The POSIX site-packages location embeds the interpreter version, which
// a lexical resolver cannot know, so it is expressed as a glob pattern
// that consumers expand against the filesystem when needed.
package layout
