package exchange

// Payload-store key layout. Requests and replies are archived per node so a
// branch can be replayed or re-extracted without talking to the provider.

// RequestKey is where the provider request payload for a node is archived.
func RequestKey(chatID, nodeID string) string { return chatID + "/" + nodeID + "/req" }

// ResponseKey is where the raw provider reply for a node is archived.
func ResponseKey(chatID, nodeID string) string { return chatID + "/" + nodeID + "/res" }

// CanonicalKey is where the canonical reduction of a reply is archived.
func CanonicalKey(chatID, nodeID string) string { return chatID + "/" + nodeID + "/canonical" }
