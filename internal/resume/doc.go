// Package resume turns an uploaded resume PDF into plain text for the
// dialogue stream's seed message.
//
// The resume service is called first. When it cannot be reached and local
// fallback is enabled, text is extracted in-process with rsc.io/pdf.
package resume
