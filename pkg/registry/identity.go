// Package registry holds the server's shared in-memory registries:
// the connection/identity mapping and the active session map.
package registry

import "sync"

// Conn is the slice of a live connection the registries need.
type Conn interface {
	SendJSON(v interface{})
}

// IdentityRegistry is a bidirectional mapping between live connections
// and authenticated identities. An identity has at most one current
// connection; binding again overwrites the previous one (last wins).
type IdentityRegistry struct {
	mu         sync.RWMutex
	byConn     map[Conn]string
	byIdentity map[string]Conn
}

// NewIdentityRegistry creates an empty registry
func NewIdentityRegistry() *IdentityRegistry {
	return &IdentityRegistry{
		byConn:     make(map[Conn]string),
		byIdentity: make(map[string]Conn),
	}
}

// Bind records the mapping in both directions, superseding any prior
// connection recorded for the identity.
func (r *IdentityRegistry) Bind(conn Conn, identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byIdentity[identity]; ok && prev != conn {
		delete(r.byConn, prev)
	}
	r.byConn[conn] = identity
	r.byIdentity[identity] = conn
}

// IdentityOf looks up the identity bound to a connection
func (r *IdentityRegistry) IdentityOf(conn Conn) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.byConn[conn]
	return identity, ok
}

// ConnectionOf looks up the current connection of an identity
func (r *IdentityRegistry) ConnectionOf(identity string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byIdentity[identity]
	return conn, ok
}

// Unbind removes both directions of the mapping atomically. It returns
// the identity that was bound and whether this connection was still the
// identity's current one; a superseded connection's unbind does not
// touch the current mapping.
func (r *IdentityRegistry) Unbind(conn Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byConn[conn]
	if !ok {
		return "", false
	}
	delete(r.byConn, conn)

	if cur, ok := r.byIdentity[identity]; ok && cur == conn {
		delete(r.byIdentity, identity)
		return identity, true
	}
	return identity, false
}
