// Package export turns the live canvas into a downloadable byte stream.
//
// A Pipeline looks the requested Format up in its Registry. PNG is the
// only format registered as filtered: the canvas is copied, run through the
// filter chain, and the working copy is encoded. JPEG and WebP bypass the
// chain and encode the canvas directly. Formats without an encoder (GIF,
// PDF, AVIF) fail with a *NotImplementedError; nothing is produced.
//
// Every Result is tagged application/octet-stream regardless of the actual
// encoding so that a browser saves it instead of rendering it inline.
//
// The pipeline moves through
//
//	Idle -> Encoding -> [Filtering -> Encoding] -> Completed | Failed
//
// and accepts one export at a time.
package export
