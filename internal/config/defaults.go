package config

import "droneset/internal/segment"

const (
	defaultDatasetDir   = "datasets/Drone_Audio_Dataset"
	defaultMetadataName = "metadata.json"
	defaultSummaryName  = "dataset_summary.csv"
	defaultAudioSubdir  = "audio"
	defaultYTDLP        = "yt-dlp"
	defaultFFmpeg       = "ffmpeg"
	defaultFFplay       = "ffplay"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults. Derived paths
// (metadata file, summary CSV) stay empty until normalization places them
// under the dataset directory.
func Default() Config {
	return Config{
		Paths: Paths{
			DatasetDir: defaultDatasetDir,
		},
		Segmentation: Segmentation{
			SegmentLengthMS: segment.DefaultSegmentLengthMS,
			StepMS:          segment.DefaultStepMS,
		},
		Tools: Tools{
			YTDLP:  defaultYTDLP,
			FFmpeg: defaultFFmpeg,
			FFplay: defaultFFplay,
		},
		Labeling: Labeling{
			Preview: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
