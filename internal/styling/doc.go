// Package styling grafts a Tailwind CSS build pipeline onto an extracted
// Help Center theme. It renders the stylesheet source and the Tailwind and
// PostCSS configuration files from embedded templates, adds the build
// scripts and dev dependencies to package.json, and links the compiled
// stylesheet from the document head template.
package styling
