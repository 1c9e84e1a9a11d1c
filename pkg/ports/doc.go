/*
Package ports defines the interfaces Accord depends on: the external
identity-provider account store, the relational user repository, the durable
history store, and the activity invoker. Adapters implement these; the flow
layer only ever sees the interfaces.
*/
package ports
