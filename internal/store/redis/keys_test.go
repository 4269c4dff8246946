package redis

import "testing"

func TestOfferKey(t *testing.T) {
	key := OfferKey("abc123")
	if key != "cxr:offers:abc123" {
		t.Errorf("OfferKey() = %q", key)
	}

	hash, err := ExtractOfferHash(key)
	if err != nil || hash != "abc123" {
		t.Errorf("ExtractOfferHash() = %q, %v", hash, err)
	}
}

func TestExtractOfferHashInvalid(t *testing.T) {
	for _, key := range []string{"", KeyPrefixOffers, "jump:cache:abc"} {
		if _, err := ExtractOfferHash(key); err == nil {
			t.Errorf("ExtractOfferHash(%q) should fail", key)
		}
	}
}

func TestRouteMember(t *testing.T) {
	member := RouteMember("hkg", "lhr")
	if member != "HKG>LHR" {
		t.Fatalf("RouteMember() = %q", member)
	}

	hub, dest, err := ParseRouteMember(member)
	if err != nil || hub != "HKG" || dest != "LHR" {
		t.Errorf("ParseRouteMember() = %q, %q, %v", hub, dest, err)
	}

	for _, bad := range []string{"HKG", ">LHR", "HKG>"} {
		if _, _, err := ParseRouteMember(bad); err == nil {
			t.Errorf("ParseRouteMember(%q) should fail", bad)
		}
	}
}
