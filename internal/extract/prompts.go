package extract

const profilePrompt = `Extract only the person's name, city name, and job title from the following resume text. Return them in JSON format as { "name": "<person's name>", "location": "<city name (check properly and if not found state name)>", "jobTitle": "<title>", "skills": ["<skills based on the resume>"], "experience": "<beginner, intermediate or senior, nothing else>" }. jobTitle means the type of job the person can apply for; send the title of the job, not the skill. Do not send anything other than this JSON object.`

const searchFactsPrompt = `Extract only the primary skill, total years of experience (categorized as beginner, intermediate, or senior), and city location from the following resume text. Return them in JSON format as { "skills": "<one primary skill; not a framework but the general name of the job>", "experience": "<beginner, intermediate, or senior>", "location": "<city name (check properly and if not found state name)>" }. Select only one skill that best represents the candidate's expertise and use it in singular form. Provide only these fields in JSON format, with no additional information.`

const contentPrompt = `Generate a job application message body to publish for the platform %q. The content should state that the user is seeking a job for the position of %q and draw on the resume text that follows. The response must be JSON containing only the content, nothing else, shaped as {"message": "<response>"}.`

const insightsPrompt = `You are a resume analysis assistant. Analyze the following resume text and return ONLY a valid JSON array in the following format: [{ "title": string, "value": string }]. Each object is one insight about the candidate, with a short human-readable value. Infer the candidate's experience level, notable skills, and likely industries. Return a maximum of 6 insight objects and nothing besides the JSON array. If the text is not a resume, return exactly: "invalid resume".`
