// Package varfile loads substitution variables from KEY VALUE
// files, one variable per line with the first space as
// delimiter. Values may reference environment variables as
// ${VAR}; references to unset variables fail loudly instead
// of silently rendering an empty string.
package varfile
