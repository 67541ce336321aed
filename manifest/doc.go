// Package manifest loads declarative render manifests in
// YAML, JSON, or HCL form and runs the requests they declare
// through the renderer. A manifest lists render requests
// (template, suffixes, optional logic path, substitutions,
// output) plus substitutions shared by all requests.
package manifest
