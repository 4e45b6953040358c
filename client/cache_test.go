package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestCache_MergeQRGuardedByID(t *testing.T) {
	var cc credentialCache

	seq := cc.nextSeq()
	cc.set(seq, &Credential{ID: "A", CredentialNumber: "FED-A", QRCodeData: "a-old"})

	// A regeneration response for a different credential must not touch the
	// cached one.
	seq = cc.nextSeq()
	cc.mergeQR(seq, "B", strptr("/qr/b.png"), "b-new")

	cached := cc.get()
	require.NotNil(t, cached)
	assert.Equal(t, "A", cached.ID)
	assert.Equal(t, "a-old", cached.QRCodeData)
	assert.Nil(t, cached.QRCodeURL)

	// Matching id merges only the QR fields.
	seq = cc.nextSeq()
	cc.mergeQR(seq, "A", strptr("/qr/a.png"), "a-new")
	cached = cc.get()
	assert.Equal(t, "a-new", cached.QRCodeData)
	assert.Equal(t, "FED-A", cached.CredentialNumber)
}

func TestCache_StaleResponseDiscarded(t *testing.T) {
	var cc credentialCache

	// Two requests issued; the later one resolves first.
	seqOld := cc.nextSeq()
	seqNew := cc.nextSeq()

	cc.set(seqNew, &Credential{ID: "A", PlayerName: "fresh"})
	cc.set(seqOld, &Credential{ID: "A", PlayerName: "stale"})

	cached := cc.get()
	require.NotNil(t, cached)
	assert.Equal(t, "fresh", cached.PlayerName)
}

func TestCache_StaleQRMergeDiscarded(t *testing.T) {
	var cc credentialCache

	seq := cc.nextSeq()
	cc.set(seq, &Credential{ID: "A", QRCodeData: "v1"})

	seqOld := cc.nextSeq()
	seqNew := cc.nextSeq()
	cc.mergeQR(seqNew, "A", strptr("/qr/a.png?t=2"), "v3")
	cc.mergeQR(seqOld, "A", strptr("/qr/a.png?t=1"), "v2")

	assert.Equal(t, "v3", cc.get().QRCodeData)
}

func TestCache_ReplaceIfSame(t *testing.T) {
	var cc credentialCache

	seq := cc.nextSeq()
	cc.set(seq, &Credential{ID: "A", PlayerName: "Maria"})

	// An update result for a different credential leaves the cache alone.
	seq = cc.nextSeq()
	cc.replaceIfSame(seq, &Credential{ID: "B", PlayerName: "Luis"})
	assert.Equal(t, "A", cc.get().ID)

	seq = cc.nextSeq()
	cc.replaceIfSame(seq, &Credential{ID: "A", PlayerName: "Maria T."})
	assert.Equal(t, "Maria T.", cc.get().PlayerName)
}

func TestCache_GetReturnsCopy(t *testing.T) {
	var cc credentialCache
	seq := cc.nextSeq()
	cc.set(seq, &Credential{ID: "A", PlayerName: "Maria"})

	got := cc.get()
	got.PlayerName = "mutated"
	assert.Equal(t, "Maria", cc.get().PlayerName)
}
