/*
Package req parses the form and query parameters of an HTTP request into a struct.

Fields are matched by their "schema" tag and checked against their "validate" tag.
Beyond the rules github.com/go-playground/validator/v10 ships with,
"localpath" asserts a string is a path on this host,
which is how the "next" destination of a sign in is kept from leading visitors elsewhere.

Failures are translated to artmatch sentinel errors.
A payload breaking its rules yields ValidationErrors,
which names each offending field and unwraps to artmatch.ErrNotValid.
*/
package req
