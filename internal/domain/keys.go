package domain

// KeyPrefix namespaces every key recipedex writes to the key-value store.
const KeyPrefix = "recipedex:"
