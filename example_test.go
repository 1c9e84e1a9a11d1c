package accord_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/identropy/accord"
	"github.com/identropy/accord/pkg/adapters/memory"
	"github.com/identropy/accord/pkg/domain"
)

// Example demonstrates provisioning a user with the in-memory adapters. A
// failed step would unwind everything already created; here all four steps
// succeed.
func Example() {
	engine := accord.New(
		memory.NewDirectory("account-console/user"),
		memory.NewRepository(),
		accord.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	res, err := engine.CreateUser(context.Background(), domain.CreateUserRequest{
		UserID:    "8fca46a8-52ba-4b52-b0a8-65ff21336b7b",
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Password:  "s3cret",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if err != nil {
		fmt.Println("infrastructure error:", err)
		return
	}

	if id, ok := res.Get(); ok {
		fmt.Println("created", id)
	} else {
		fmt.Println("rejected:", res.ErrorCode)
	}
	// Output: created 8fca46a8-52ba-4b52-b0a8-65ff21336b7b
}

// Example_conflict shows a domain failure: the email is already taken, the
// flow rejects before any side effect, and the outcome is a typed error code
// rather than a Go error.
func Example_conflict() {
	engine := accord.New(
		memory.NewDirectory("account-console/user"),
		memory.NewRepository(),
		accord.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	ctx := context.Background()
	first := domain.CreateUserRequest{
		UserID:   "421b1e91-97bc-4af5-9caa-000000000000",
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret",
	}
	if _, err := engine.CreateUser(ctx, first); err != nil {
		fmt.Println("infrastructure error:", err)
		return
	}

	second := first
	second.UserID = "f0b60907-4f8e-4f31-b1f1-111111111111"
	res, err := engine.CreateUser(ctx, second)
	if err != nil {
		fmt.Println("infrastructure error:", err)
		return
	}
	fmt.Println("rejected:", res.ErrorCode)
	// Output: rejected: UserAlreadyExists
}
