package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(CodeDependency, cause, "load coupon")

	if err.Unwrap() != cause {
		t.Fatalf("unwrap = %v, want %v", err.Unwrap(), cause)
	}
	if err.Code() != CodeDependency {
		t.Fatalf("code = %s", err.Code())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	inner := New(CodeNotFound, "coupon not found")
	wrapped := fmt.Errorf("outer: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("code = %s", typed.Code())
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("status = %d", meta.HTTPStatus)
	}
}

func TestCouponStateMetadata(t *testing.T) {
	meta := MetadataFor(CodeCouponState)
	if meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("coupon state errors should expose details")
	}
}

func TestDumpChain(t *testing.T) {
	err := Wrap(CodeInternal, fmt.Errorf("root"), "top")
	d := Dump(err)
	if d.Code != CodeInternal {
		t.Fatalf("code = %s", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("chain = %v", d.Chain)
	}
}
