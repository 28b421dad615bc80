// Package media provides the capture and playback devices a live session uses.
//
// Key types:
//   - FrameSource: yields JPEG-encoded camera frames (DirFrameSource cycles
//     image files from a directory)
//   - Microphone: opens an audio byte stream (FileMicrophone replays a file)
//   - Recorder: slices a microphone into fixed-interval chunks and signals
//     Done only after the last chunk callback has returned
//   - Speaker: speaks interviewer questions (CommandSpeaker runs an external
//     text-to-speech command)
//
// Acquisition failures are reported as services.ErrDevice so the session can
// degrade instead of aborting.
package media
