package client

import "sync"

// credentialCache holds the caller's own credential between calls. Writes are
// ordered by the sequence number taken when the request was issued, so a slow
// response that was superseded by a later-issued request is discarded instead
// of clobbering newer state.
type credentialCache struct {
	mu      sync.Mutex
	seq     uint64 // last issued sequence
	applied uint64 // sequence of the write currently reflected in cred
	cred    *Credential
}

// nextSeq reserves the ordering slot for a request about to be issued.
func (cc *credentialCache) nextSeq() uint64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.seq++
	return cc.seq
}

// set replaces the cached credential, unless a later-issued request has
// already been applied.
func (cc *credentialCache) set(seq uint64, cred *Credential) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if seq < cc.applied {
		return
	}
	copied := *cred
	cc.cred = &copied
	cc.applied = seq
}

// replaceIfSame replaces the cache only when the incoming credential is the
// one currently cached (or nothing is cached yet).
func (cc *credentialCache) replaceIfSame(seq uint64, cred *Credential) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if seq < cc.applied {
		return
	}
	if cc.cred != nil && cc.cred.ID != cred.ID {
		return
	}
	copied := *cred
	cc.cred = &copied
	cc.applied = seq
}

// mergeQR merges the two QR fields into the cached credential. The merge is
// guarded by id equality: a regeneration response for credential B must never
// touch a cached credential A.
func (cc *credentialCache) mergeQR(seq uint64, id string, qrURL *string, qrData string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if seq < cc.applied {
		return
	}
	if cc.cred == nil || cc.cred.ID != id {
		return
	}
	cc.cred.QRCodeURL = qrURL
	cc.cred.QRCodeData = qrData
	cc.applied = seq
}

// get returns a copy of the cached credential, or nil.
func (cc *credentialCache) get() *Credential {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.cred == nil {
		return nil
	}
	copied := *cc.cred
	return &copied
}
