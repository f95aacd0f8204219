package handler

import "fmt"

// Report types recognized in uploaded performance report names.
const (
	ReportTypeAWR  = "AWR"
	ReportTypeADDM = "ADDM"
	ReportTypeASH  = "ASH"
)

// ObjectEvent is the Object Storage emitted event that triggers the function.
type ObjectEvent struct {
	EventType string          `json:"eventType"`
	Data      ObjectEventData `json:"data"`
}

type ObjectEventData struct {
	ResourceName      string            `json:"resourceName"`
	AdditionalDetails AdditionalDetails `json:"additionalDetails"`
}

type AdditionalDetails struct {
	BucketName string `json:"bucketName"`
	Namespace  string `json:"namespace"`
}

// MetadataAttribute is a single name/type/value entry in the metadata sidecar.
type MetadataAttribute struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// ReportMetadata is the sidecar document written next to each ingested report.
type ReportMetadata struct {
	MetadataAttributes []MetadataAttribute `json:"metadataAttributes"`
}

// NewReportMetadata builds the sidecar for a classified report.
func NewReportMetadata(snapshotId int, reportType string) ReportMetadata {
	return ReportMetadata{
		MetadataAttributes: []MetadataAttribute{
			{Name: "snapshot_id", Type: "integer", Value: snapshotId},
			{Name: "report_type", Type: "string", Value: reportType},
		},
	}
}

type PayloadMalformedError struct {
	Reason string
}

func (e *PayloadMalformedError) Error() string {
	return fmt.Sprintf("event payload is malformed: %s", e.Reason)
}

type SnapshotParseError struct {
	ObjectName string
	Token      string
}

func (e *SnapshotParseError) Error() string {
	return fmt.Sprintf("cannot parse snapshot id %q from object name %s", e.Token, e.ObjectName)
}

type SidecarWriteError struct {
	Bucket     string
	ObjectName string
	Err        error
}

func (e *SidecarWriteError) Error() string {
	return fmt.Sprintf("cannot write metadata sidecar %s to bucket %s: %v", e.ObjectName, e.Bucket, e.Err)
}

func (e *SidecarWriteError) Unwrap() error {
	return e.Err
}

type IngestionJobError struct {
	DisplayName string
	Err         error
}

func (e *IngestionJobError) Error() string {
	return fmt.Sprintf("cannot create ingestion job %s: %v", e.DisplayName, e.Err)
}

func (e *IngestionJobError) Unwrap() error {
	return e.Err
}
