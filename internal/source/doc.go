// Package source classifies a user-supplied input as a local file or a remote
// recording and derives everything that is named after it: the remote video
// ID, the normalized motor label, the clip filename prefix, and the output
// directory under the dataset audio root.
//
// Layout under the audio root:
//
//	{motor_label}/{prefix}_{index:03d}.wav           drone candidates
//	no_label/{prefix}_{index:03d}.wav                local files without a motor count
//	not_a_drone/{subtype}/{prefix}_{index:03d}.wav   clips labeled as no drone
package source
