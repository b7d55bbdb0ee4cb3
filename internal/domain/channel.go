package domain

// ChannelName is any non-empty string; no format is imposed.
type ChannelName string
