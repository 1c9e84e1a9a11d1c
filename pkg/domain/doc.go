/*
Package domain holds the core types shared across the Accord library: user and
profile records, the tagged Failure carried across activity boundaries, the
Result returned by flows, and the lifecycle hooks used for observability.
*/
package domain
