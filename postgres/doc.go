/*
Package postgres manages the database connection backing the postgres storage driver.

The connection settings come from a [CxnConfig],
which [NewCxnConfig] builds out of DATABASE environment variables.
When the config marks the database as a test target, [Connect] drops the public schema first.
*/
package postgres
