// Package runtime runs agent projects locally, mirroring the hosted
// environment: python3 with the manifest's secrets exported. The
// ForEntrypoint function selects the runtime from the entrypoint's
// file extension.
package runtime
