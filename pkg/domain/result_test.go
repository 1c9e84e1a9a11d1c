package domain_test

import (
	"testing"

	"github.com/identropy/accord/pkg/domain"
)

func TestResult_ExactlyOneOf(t *testing.T) {
	ok := domain.OK("user-1")
	if ok.Value == nil {
		t.Fatal("expected value on success")
	}
	if ok.ErrorCode != "" {
		t.Fatalf("expected no error code on success, got %q", ok.ErrorCode)
	}

	bad := domain.Err[string]("UserNotFound", map[string]string{"userId": "u-1"})
	if bad.Value != nil {
		t.Fatalf("expected no value on error, got %v", *bad.Value)
	}
	if bad.ErrorCode == "" {
		t.Fatal("expected error code on failure")
	}
}

func TestResult_IsSuccess(t *testing.T) {
	if !domain.OK(42).IsSuccess() {
		t.Error("OK result should be success")
	}
	if domain.Err[int]("ApplicationFailure", nil).IsSuccess() {
		t.Error("Err result should not be success")
	}
}

func TestResult_Get(t *testing.T) {
	v, ok := domain.OK("hello").Get()
	if !ok || v != "hello" {
		t.Fatalf("expected (hello, true), got (%q, %v)", v, ok)
	}

	_, ok = domain.Err[string]("UserNotFound", nil).Get()
	if ok {
		t.Fatal("expected no value from error result")
	}
}
