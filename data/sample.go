package data

import "strings"

// sampleCSV is a small embedded cohort used when no dataset file is
// supplied, mirroring the MIMIC-style export the loader expects.
const sampleCSV = `icustay_id,DiastolicBP,HeartRate,MeanBP,RespRate,SpO2,SysBP,Temperature,age,gender,admission_type,in_hospital_death,in_icu_death
201204,54.259,72.944,73.370,18.556,98.093,136.296,96.509,80.561,F,EMERGENCY,FALSE,FALSE
204132,90.094,111.934,101.278,20.434,96.567,139.415,98.474,41.056,M,EMERGENCY,TRUE,TRUE
205170,64.654,76.960,74.154,14.527,98.521,105.885,97.633,62.463,M,EMERGENCY,FALSE,FALSE
209797,62.157,71.200,72.681,12.803,98.704,106.857,97.394,65.303,M,EMERGENCY,FALSE,FALSE
210164,69.852,91.667,80.630,15.767,99.900,116.889,98.057,43.853,M,EMERGENCY,FALSE,FALSE
210474,72.804,80.703,95.280,26.932,93.730,159.863,98.536,80.961,M,EMERGENCY,TRUE,FALSE
210989,55.500,109.449,72.618,21.804,96.657,130.706,99.750,40.606,M,EMERGENCY,FALSE,FALSE
213315,70.539,68.244,82.408,12.538,98.909,120.421,97.626,65.168,M,EMERGENCY,FALSE,FALSE
214180,63.302,105.091,73.047,18.889,95.000,105.773,99.062,53.505,M,EMERGENCY,FALSE,FALSE
216185,61.284,79.607,75.976,20.761,95.997,124.679,98.330,48.947,M,EMERGENCY,FALSE,FALSE
217992,58.359,95.797,70.421,24.632,96.776,111.346,99.463,58.147,F,EMERGENCY,FALSE,FALSE
219013,68.517,77.207,80.862,21.828,93.643,121.034,97.371,80.836,F,EMERGENCY,FALSE,FALSE
220671,57.000,67.846,72.588,23.921,94.553,125.471,98.422,88.736,F,EMERGENCY,TRUE,TRUE
221684,56.398,92.193,68.137,20.990,96.718,103.375,97.634,68.604,F,EMERGENCY,TRUE,TRUE
223285,66.571,105.545,78.476,33.727,97.571,119.667,97.275,88.034,F,EMERGENCY,FALSE,FALSE
224458,44.838,92.460,57.083,13.320,95.465,97.108,97.633,81.097,F,EMERGENCY,TRUE,TRUE
229194,66.111,82.444,77.125,19.611,95.333,116.889,98.925,76.887,M,EMERGENCY,FALSE,FALSE
231005,75.224,102.418,93.463,25.791,96.156,144.030,99.473,86.259,F,EMERGENCY,FALSE,FALSE
234424,53.545,79.000,69.409,23.000,96.522,118.136,96.900,76.938,M,EMERGENCY,FALSE,FALSE
234541,56.600,66.518,66.164,14.109,99.745,96.636,96.492,63.865,M,EMERGENCY,FALSE,FALSE`

// LoadSample loads the embedded cohort.
func LoadSample() (*Dataset, *Pipeline, error) {
	return Load(strings.NewReader(sampleCSV))
}
