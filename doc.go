/*
Package accord orchestrates identity-lifecycle operations across an external
identity provider and a relational user store with all-or-nothing semantics.

It implements the saga pattern with compensation: each flow runs an ordered
sequence of side-effecting steps, registering a reversal for every step that
succeeds. When a later step fails, the registered reversals drain in reverse
order so no system is left holding a half-created identity.

# Concept

Accord separates the orchestration (flows and their compensation stacks) from
the collaborators (ports.Directory for the identity provider, ports.Repository
for the database). This Hexagonal Architecture lets the same flows run against
Keycloak and Postgres in production or the in-memory adapters in tests.

Failures carry a class: domain failures (duplicate email, unknown role) are
expected business outcomes, never retried, and surface as typed error codes in
a Result. Infrastructure failures are retried under a bounded backoff policy
and, once exhausted, trigger the compensation drain.

Every run's input and outcome is recorded in a history store. With an
encryption codec configured, records are sealed with AES-256-GCM under a
rotating key set before they reach the store.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/identropy/accord"
		"github.com/identropy/accord/pkg/adapters/memory"
		"github.com/identropy/accord/pkg/domain"
	)

	func main() {
		engine := accord.New(
			memory.NewDirectory("account-console/user"),
			memory.NewRepository(),
		)

		res, err := engine.CreateUser(context.Background(), domain.CreateUserRequest{
			UserID:   "8fca46a8-52ba-4b52-b0a8-65ff21336b7b",
			Username: "jdoe",
			Email:    "jdoe@example.com",
			Password: "s3cret",
		})
		if err != nil {
			log.Fatal(err)
		}
		if id, ok := res.Get(); ok {
			log.Println("created", id)
		} else {
			log.Println("rejected:", res.ErrorCode)
		}
	}
*/
package accord
